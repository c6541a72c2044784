package kalshi

import "fmt"

// Environment selects the exchange deployment. Exactly two exist; the
// choice is explicit configuration, never inferred from request content.
type Environment string

const (
	EnvDemo Environment = "demo"
	EnvProd Environment = "prod"
)

// ParseEnvironment validates an environment name from configuration.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvDemo:
		return EnvDemo, nil
	case EnvProd:
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid environment %q (want demo or prod)", s)
	}
}

// HTTPBase returns the fixed HTTP host for the environment.
func (e Environment) HTTPBase() string {
	if e == EnvProd {
		return "https://api.elections.kalshi.com"
	}
	return "https://demo-api.kalshi.co"
}

// WSBase returns the fixed WebSocket host for the environment.
func (e Environment) WSBase() string {
	if e == EnvProd {
		return "wss://api.elections.kalshi.com"
	}
	return "wss://demo-api.kalshi.co"
}
