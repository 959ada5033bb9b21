package razorpay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	razorpaysdk "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
)

// Razorpay order-create amounts are in paise.
const Currency = "INR"

var (
	// Credentials missing: reported before any remote call.
	ErrNotConfigured = errors.New("razorpay keys not configured")

	// Remote call failed (network, gateway, open breaker). Orders stay
	// packed/pending so the user can retry.
	ErrGatewayCall = errors.New("razorpay call failed")
)

type CreateIntentInput struct {
	Amount  decimal.Decimal
	Receipt string
	Notes   map[string]interface{}
}

// Parameters the payment page needs to open the gateway widget.
type OrderIntent struct {
	GatewayOrderID string
	AmountPaise    int64
	Currency       string
	Receipt        string
}

type IntentCreator interface {
	CreateOrderIntent(ctx context.Context, in CreateIntentInput) (OrderIntent, error)
}

// ToPaise converts a rupee amount to the gateway's minor unit,
// truncating beyond two fraction digits.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Shift(2).IntPart()
}

// Client wraps the Razorpay SDK behind a circuit breaker so a flapping
// gateway fails fast instead of stacking up checkout requests.
type Client struct {
	keyID   string
	sdk     *razorpaysdk.Client
	breaker *gobreaker.CircuitBreaker[OrderIntent]
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(keyID, keySecret string, logger *slog.Logger) *Client {
	if keyID == "" || keySecret == "" {
		return &Client{logger: logger}
	}

	timeout := 10 * time.Second

	sdk := razorpaysdk.NewClient(keyID, keySecret)
	sdk.SetTimeout(int16(timeout.Seconds()))

	breaker := gobreaker.NewCircuitBreaker[OrderIntent](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
	})

	return &Client{
		keyID:   keyID,
		sdk:     sdk,
		breaker: breaker,
		timeout: timeout,
		logger:  logger,
	}
}

func (c *Client) Configured() bool {
	return c.sdk != nil
}

func (c *Client) KeyID() string {
	return c.keyID
}

func (c *Client) CreateOrderIntent(ctx context.Context, in CreateIntentInput) (OrderIntent, error) {
	if !c.Configured() {
		return OrderIntent{}, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return OrderIntent{}, err
	}

	amountPaise := ToPaise(in.Amount)

	intent, err := c.breaker.Execute(func() (OrderIntent, error) {
		// The SDK call itself is bounded by the client timeout.
		body, err := c.sdk.Order.Create(map[string]interface{}{
			"amount":   amountPaise,
			"currency": Currency,
			"receipt":  in.Receipt,
			"notes":    in.Notes,
		}, nil)
		if err != nil {
			return OrderIntent{}, err
		}

		id, ok := body["id"].(string)
		if !ok || id == "" {
			return OrderIntent{}, fmt.Errorf("order create response missing id")
		}

		return OrderIntent{
			GatewayOrderID: id,
			AmountPaise:    amountPaise,
			Currency:       Currency,
			Receipt:        in.Receipt,
		}, nil
	})

	if err != nil {
		c.logger.Error("razorpay order create failed", "receipt", in.Receipt, "err", err)
		return OrderIntent{}, fmt.Errorf("%w: %v", ErrGatewayCall, err)
	}

	return intent, nil
}
