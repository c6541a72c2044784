package workflow

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// AnswerSource answers the workflow's yes/no questions. Separating the
// decision from console I/O keeps the state machine testable without a
// terminal.
type AnswerSource interface {
	Confirm(prompt string) (bool, error)
}

// ConsoleAnswerSource prompts on the terminal. Affirmative answers are
// "y" or "yes", case-insensitive; anything else declines.
type ConsoleAnswerSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleAnswerSource creates a stdin/stdout prompter.
func NewConsoleAnswerSource() *ConsoleAnswerSource {
	return &ConsoleAnswerSource{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (c *ConsoleAnswerSource) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// AutoAnswerSource answers every prompt the same way. Used for
// --yes runs and dry runs.
type AutoAnswerSource struct {
	Answer bool
}

func (a *AutoAnswerSource) Confirm(string) (bool, error) {
	return a.Answer, nil
}

// Confirmer walks one recommendation through the confirmation states:
//
//	Proposed -> AwaitingShareConfirm -> AwaitingPriceConfirm -> Confirmed | Cancelled
//
// Any non-affirmative answer cancels immediately; no partial orders
// exist. The share count is pinned to a fixed safety ceiling regardless
// of the recommended size, which stays advisory display.
type Confirmer struct {
	answers AnswerSource
	out     io.Writer
	amount  int
	logger  *zap.Logger
}

// ConfirmerConfig holds confirmer configuration.
type ConfirmerConfig struct {
	Answers AnswerSource
	Out     io.Writer
	Amount  int
	Logger  *zap.Logger
}

// NewConfirmer creates a confirmer.
func NewConfirmer(cfg *ConfirmerConfig) *Confirmer {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	amount := cfg.Amount
	if amount < 1 {
		amount = 1
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Confirmer{answers: cfg.Answers, out: out, amount: amount, logger: logger}
}

// Confirm runs the state machine for one recommendation. A nil order
// with a nil error means the user cancelled.
func (c *Confirmer) Confirm(rec *types.BetRecommendation) (*types.BetOrder, error) {
	c.display(rec)

	ok, err := c.answers.Confirm(fmt.Sprintf("Buy %d share(s) of %s %s", c.amount, rec.Ticker, rec.Side))
	if err != nil {
		return nil, err
	}
	if !ok {
		confirmations.WithLabelValues("cancelled").Inc()
		c.logger.Info("recommendation-cancelled", zap.String("ticker", rec.Ticker), zap.String("stage", "shares"))
		return nil, nil
	}

	totalCents := c.amount * rec.CurrentPrice
	ok, err = c.answers.Confirm(fmt.Sprintf("Total cost $%.2f at %s per share, place order", float64(totalCents)/100, types.FormatCents(rec.CurrentPrice)))
	if err != nil {
		return nil, err
	}
	if !ok {
		confirmations.WithLabelValues("cancelled").Inc()
		c.logger.Info("recommendation-cancelled", zap.String("ticker", rec.Ticker), zap.String("stage", "price"))
		return nil, nil
	}

	order := &types.BetOrder{
		Ticker:        rec.Ticker,
		Side:          rec.Side,
		Amount:        c.amount,
		Price:         rec.CurrentPrice,
		ClientOrderID: uuid.NewString(),
		MarketTitle:   rec.MarketTitle,
	}

	confirmations.WithLabelValues("confirmed").Inc()
	c.logger.Info("order-confirmed",
		zap.String("ticker", order.Ticker),
		zap.String("side", order.Side),
		zap.String("client-order-id", order.ClientOrderID))

	return order, nil
}

func (c *Confirmer) display(rec *types.BetRecommendation) {
	fmt.Fprintf(c.out, "\n%s\n", rec.String())
	fmt.Fprintf(c.out, "  reasoning: %s\n", rec.Reasoning)
	fmt.Fprintf(c.out, "  risk/reward: %s\n", riskReward(rec.CurrentPrice, c.amount))
}

// riskReward formats potential-profit over potential-loss at the given
// size. A free position has nothing at risk.
func riskReward(price, amount int) string {
	profit := amount * (100 - price)
	loss := amount * price
	if loss == 0 {
		return "no risk"
	}
	return fmt.Sprintf("%.2f", float64(profit)/float64(loss))
}
