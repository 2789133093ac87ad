package razorpay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	razorpaysdk "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	domainErrors "github.com/polkiloo/weddingmart/internal/domain/errors"
	"github.com/polkiloo/weddingmart/internal/domain/model"
)

const opCreateOrder = "create order"

// Client exposes the payment provider operations used by checkout.
type Client interface {
	CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*model.GatewayOrder, error)
	VerifyWebhook(body []byte, signature string) bool
	KeyID() string
}

// orderAPI is satisfied by the SDK order resource.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Gateway implements Client on top of razorpay-go.
type Gateway struct {
	orders        orderAPI
	keyID         string
	webhookSecret string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewGateway creates Razorpay backed gateway. The SDK call has no context, so
// timeout bounds how long checkout waits for it.
func NewGateway(keyID, keySecret, webhookSecret string, timeout time.Duration, logger *slog.Logger) *Gateway {
	client := razorpaysdk.NewClient(keyID, keySecret)
	return newGateway(client.Order, keyID, webhookSecret, timeout, logger)
}

func newGateway(orders orderAPI, keyID, webhookSecret string, timeout time.Duration, logger *slog.Logger) *Gateway {
	return &Gateway{
		orders:        orders,
		keyID:         keyID,
		webhookSecret: webhookSecret,
		timeout:       timeout,
		logger:        logger,
	}
}

// KeyID returns the publishable key for the hosted checkout widget.
func (g *Gateway) KeyID() string {
	return g.keyID
}

type createResult struct {
	body map[string]interface{}
	err  error
}

// CreateOrder opens a provider order for amount in minor units.
func (g *Gateway) CreateOrder(ctx context.Context, amount model.Money, currency, receipt string) (*model.GatewayOrder, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	data := map[string]interface{}{
		"amount":   int64(amount),
		"currency": currency,
		"receipt":  receipt,
	}

	done := make(chan createResult, 1)
	go func() {
		body, err := g.orders.Create(data, nil)
		done <- createResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		g.logger.Error("razorpay order creation abandoned",
			slog.String("receipt", receipt),
			slog.String("error", ctx.Err().Error()),
		)
		return nil, &domainErrors.GatewayError{Op: opCreateOrder, Message: "request timed out", Err: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			g.logger.Error("razorpay order creation failed",
				slog.String("receipt", receipt),
				slog.String("error", res.err.Error()),
			)
			return nil, &domainErrors.GatewayError{Op: opCreateOrder, Message: res.err.Error()}
		}
		order, err := parseOrder(res.body)
		if err != nil {
			g.logger.Error("razorpay returned malformed order", slog.String("receipt", receipt), slog.String("error", err.Error()))
			return nil, &domainErrors.GatewayError{Op: opCreateOrder, Message: err.Error()}
		}
		if order.Amount != amount {
			g.logger.Error("razorpay order amount differs from request",
				slog.String("order_id", order.ID),
				slog.Int64("requested", int64(amount)),
				slog.Int64("returned", int64(order.Amount)),
			)
			return nil, &domainErrors.GatewayError{Op: opCreateOrder, Message: "amount mismatch"}
		}
		return order, nil
	}
}

// VerifyWebhook checks the X-Razorpay-Signature of a raw webhook body.
func (g *Gateway) VerifyWebhook(body []byte, signature string) bool {
	if g.webhookSecret == "" || signature == "" {
		return false
	}
	return utils.VerifyWebhookSignature(string(body), signature, g.webhookSecret)
}

func parseOrder(body map[string]interface{}) (*model.GatewayOrder, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("order id missing in response")
	}
	amount, err := minorUnits(body["amount"])
	if err != nil {
		return nil, err
	}
	currency, _ := body["currency"].(string)
	receipt, _ := body["receipt"].(string)
	status, _ := body["status"].(string)
	return &model.GatewayOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   status,
	}, nil
}

func minorUnits(v interface{}) (model.Money, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("fractional amount %v in response", n)
		}
		return model.Money(n), nil
	case int64:
		return model.Money(n), nil
	case int:
		return model.Money(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("amount %q: %w", n, err)
		}
		return model.Money(i), nil
	}
	return 0, fmt.Errorf("amount missing in response")
}
