package kalshi

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sentibet/sentibet/pkg/types"
)

// signer produces the RSA-PSS-SHA256 signatures the exchange requires.
// The signed message is <millis-timestamp><METHOD><path-without-query>,
// concatenated as ASCII, with PSS salt length equal to the digest length.
type signer struct {
	keyID string
	key   *rsa.PrivateKey
}

// sign signs method+path for the given millisecond timestamp and returns
// the base64 signature. The query string, if any, is stripped first.
func (s *signer) sign(method, path string, tsMillis int64) (string, error) {
	cleanPath, _, _ := strings.Cut(path, "?")
	msg := strconv.FormatInt(tsMillis, 10) + method + cleanPath

	digest := sha256.Sum256([]byte(msg))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return "", &types.SigningError{Err: err}
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// ParsePrivateKey parses a PEM-encoded RSA private key (PKCS#1 or PKCS#8).
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, &types.SigningError{Err: errors.New("no PEM block in key material")}
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &types.SigningError{Err: fmt.Errorf("parse private key: %w", err)}
	}

	rsaKey, ok := keyAny.(*rsa.PrivateKey)
	if !ok {
		return nil, &types.SigningError{Err: fmt.Errorf("unsupported key type %T, want RSA", keyAny)}
	}

	return rsaKey, nil
}

// LoadPrivateKey reads and parses a PEM private key file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.SigningError{Err: fmt.Errorf("read key file: %w", err)}
	}
	return ParsePrivateKey(pemBytes)
}
