package sentiment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

// GeneralBucket is the fallback corpus key used when no market-specific
// texts exist.
const GeneralBucket = "GENERAL"

// Corpus holds scraped text snippets keyed by market ticker. Lookups walk
// a ladder from most to least specific:
//
//	exact ticker -> event base (before the first hyphen) -> general bucket
//
// A miss at every rung returns nil, which callers treat as "skip this
// market", never as an error.
type Corpus struct {
	cache  *ristretto.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// CorpusConfig holds corpus configuration.
type CorpusConfig struct {
	TTL    time.Duration
	Logger *zap.Logger
}

// NewCorpus creates an empty corpus with the given entry TTL.
func NewCorpus(cfg *CorpusConfig) (*Corpus, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 26,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create corpus cache: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Corpus{cache: cache, ttl: ttl, logger: logger}, nil
}

// Put stores texts under a ticker key. The key is uppercased so lookups
// are case-insensitive.
func (c *Corpus) Put(key string, texts []string) {
	if len(texts) == 0 {
		return
	}
	cost := int64(0)
	for _, t := range texts {
		cost += int64(len(t))
	}
	c.cache.SetWithTTL(strings.ToUpper(key), texts, cost, c.ttl)
}

// Lookup returns texts for a ticker, walking the specificity ladder.
func (c *Corpus) Lookup(ticker string) []string {
	key := strings.ToUpper(ticker)

	if texts, level := c.lookupExact(key); texts != nil {
		corpusLookups.WithLabelValues(level).Inc()
		return texts
	}

	if base, _, found := strings.Cut(key, "-"); found {
		if texts, _ := c.lookupExact(base); texts != nil {
			corpusLookups.WithLabelValues("event_base").Inc()
			return texts
		}
	}

	if texts, _ := c.lookupExact(GeneralBucket); texts != nil {
		corpusLookups.WithLabelValues("general").Inc()
		return texts
	}

	corpusLookups.WithLabelValues("miss").Inc()
	return nil
}

func (c *Corpus) lookupExact(key string) ([]string, string) {
	val, ok := c.cache.Get(key)
	if !ok {
		return nil, ""
	}
	texts, ok := val.([]string)
	if !ok || len(texts) == 0 {
		return nil, ""
	}
	return texts, "exact"
}

// LoadDir ingests every .txt file in dir. The filename stem, uppercased,
// becomes the corpus key; non-empty lines become the texts. A file named
// general.txt fills the fallback bucket.
func (c *Corpus) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read texts dir: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			c.logger.Warn("corpus-file-unreadable",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}

		var texts []string
		for _, line := range strings.Split(string(raw), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				texts = append(texts, line)
			}
		}
		if len(texts) == 0 {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), ".txt")
		c.Put(stem, texts)
		loaded++
	}

	// Ristretto applies sets asynchronously; block until ingested texts
	// are visible to lookups.
	c.cache.Wait()

	c.logger.Info("corpus-loaded", zap.String("dir", dir), zap.Int("files", loaded))
	return loaded, nil
}

// Close releases the underlying cache.
func (c *Corpus) Close() {
	c.cache.Close()
}
