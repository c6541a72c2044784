package engine

// kellyScale converts a fractional-Kelly bankroll fraction into shares.
// At the default quarter-Kelly multiplier a maximal edge maps onto the
// ten-share ceiling.
const kellyScale = 40

// ExpectedValue computes the per-share expected profit in dollars for
// buying one contract at ask cents, given probability p of that side
// paying out. Non-positive asks are degenerate pricing and worth
// nothing by definition.
func ExpectedValue(p float64, ask int) float64 {
	if ask <= 0 {
		return 0
	}
	return (p*float64(100-ask) - (1-p)*float64(ask)) / 100
}

// SizeBet converts confidence and price into an integer share count via
// the Kelly criterion, scaled by the configured fractional multiplier.
// A non-positive expected value returns 0, the hard "don't trade"
// signal. A price outside (0,100) cannot produce odds, so the fallback
// is a single share.
func SizeBet(confidence, ev float64, price int, kellyFraction float64, maxShares int) int {
	if ev <= 0 {
		return 0
	}
	if price <= 0 || price >= 100 {
		return 1
	}

	b := float64(100-price) / float64(price)
	q := 1 - confidence
	f := kellyFraction * (b*confidence - q) / b

	shares := int(f * kellyScale)
	if shares < 1 {
		return 1
	}
	if shares > maxShares {
		return maxShares
	}
	return shares
}
