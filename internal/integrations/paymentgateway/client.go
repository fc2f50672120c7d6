package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe отдает его, пока запрос с тем же ключом еще выполняется
const codeIdempotencyKeyInUse stripe.ErrorCode = "idempotency_key_in_use"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type intentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Confirm(id string, params *stripe.PaymentIntentConfirmParams) (*stripe.PaymentIntent, error)
	Cancel(id string, params *stripe.PaymentIntentCancelParams) (*stripe.PaymentIntent, error)
}

type refundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

// Client списание оплаты за сессию через Stripe PaymentIntents
type Client struct {
	intents intentAPI
	refunds refundAPI
	timeout time.Duration
	log     Logger
}

// NewClient создает клиента Stripe с отдельным API ключом
func NewClient(secretKey string, timeout time.Duration, log Logger) *Client {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &Client{
		intents: sc.PaymentIntents,
		refunds: sc.Refunds,
		timeout: timeout,
		log:     log,
	}
}

// Charge создает PaymentIntent и подтверждает его отдельным запросом, чтобы ID намерения
// был известен до списания. Если исход подтверждения неизвестен (таймаут, сбой сети),
// намерение читается заново и отменяется или возвращается, после чего отдается ErrUnavailable.
// Повтор с тем же IdempotencyKey и теми же параметрами не создает второе списание.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	amount := int64(math.Round(req.Amount * 100))
	if amount <= 0 || req.CardToken == "" || req.Currency == "" {
		return nil, fmt.Errorf("%w: amount=%d, currency=%q, token set=%t",
			ErrInvalidRequest, amount, req.Currency, req.CardToken != "")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// 1. Намерение без подтверждения: деньги не двигаются
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethod:      stripe.String(req.CardToken),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Description:        stripe.String(req.Description),
	}
	params.Context = callCtx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := c.intents.New(params)
	if err != nil {
		return nil, c.mapError(callCtx, "Charge - create", err)
	}

	// 2. Подтверждение
	confirm := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(req.CardToken)}
	confirm.Context = callCtx
	if req.IdempotencyKey != "" {
		confirm.SetIdempotencyKey(req.IdempotencyKey + "-confirm")
	}

	confirmed, err := c.intents.Confirm(pi.ID, confirm)
	if err != nil {
		mapped := c.mapError(callCtx, "Charge - confirm", err)
		if errors.Is(mapped, ErrUnavailable) {
			c.settle(ctx, pi.ID)
		}
		return nil, mapped
	}

	if confirmed.Status != stripe.PaymentIntentStatusSucceeded {
		c.log.Warn("PaymentGateway: intent id=%s finished with status=%s", confirmed.ID, confirmed.Status)
		c.settle(ctx, confirmed.ID)
		return nil, fmt.Errorf("%w: intent %s status %s", ErrDeclined, confirmed.ID, confirmed.Status)
	}

	c.log.Info("PaymentGateway: charged intent id=%s amount=%d %s", confirmed.ID, amount, req.Currency)
	return &ChargeResult{ID: confirmed.ID, Status: string(confirmed.Status)}, nil
}

// Refund возвращает списание целиком. Используется, если сессию не удалось сохранить после оплаты.
func (c *Client) Refund(ctx context.Context, chargeID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.RefundParams{PaymentIntent: stripe.String(chargeID)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + chargeID)

	if _, err := c.refunds.New(params); err != nil {
		return c.mapError(ctx, "Refund", err)
	}

	c.log.Info("PaymentGateway: refunded intent id=%s", chargeID)
	return nil
}

// Void приводит намерение в состояние без списания: успешное возвращается,
// неподтвержденное отменяется, отмененное не трогается.
func (c *Client) Void(ctx context.Context, intentID string) error {
	getCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = getCtx

	pi, err := c.intents.Get(intentID, params)
	if err != nil {
		return c.mapError(getCtx, "Void - get", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return c.Refund(ctx, intentID)
	case stripe.PaymentIntentStatusCanceled:
		return nil
	case stripe.PaymentIntentStatusProcessing:
		return fmt.Errorf("%w: intent %s is still processing", ErrUnavailable, intentID)
	}

	cancelCtx, cancelCancel := context.WithTimeout(ctx, c.timeout)
	defer cancelCancel()

	cp := &stripe.PaymentIntentCancelParams{}
	cp.Context = cancelCtx
	cp.SetIdempotencyKey("cancel-" + intentID)

	if _, err := c.intents.Cancel(intentID, cp); err != nil {
		return c.mapError(cancelCtx, "Void - cancel", err)
	}

	c.log.Info("PaymentGateway: canceled intent id=%s in status=%s", intentID, pi.Status)
	return nil
}

// settle вызывается, когда исход неизвестен или намерение повисло.
// Контекст запроса к этому моменту мог истечь, поэтому используется отвязанный.
func (c *Client) settle(ctx context.Context, intentID string) {
	if err := c.Void(context.WithoutCancel(ctx), intentID); err != nil {
		c.log.Error("PaymentGateway: intent id=%s needs manual reconciliation: %v", intentID, err)
	}
}

func (c *Client) mapError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.log.Warn("PaymentGateway: %s timed out: %v", op, err)
		return fmt.Errorf("%w: %s - timeout: %v", ErrUnavailable, op, err)
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch {
		case stripeErr.Code == codeIdempotencyKeyInUse:
			c.log.Warn("PaymentGateway: %s request with the same key is in flight", op)
			return fmt.Errorf("%w: %s: %s", ErrUnavailable, op, stripeErr.Msg)
		case stripeErr.Type == stripe.ErrorTypeIdempotency:
			c.log.Error("PaymentGateway: %s idempotency key reused: %s", op, stripeErr.Msg)
			return fmt.Errorf("%w: %s", ErrIdempotencyConflict, stripeErr.Msg)
		case stripeErr.Type == stripe.ErrorTypeCard:
			c.log.Warn("PaymentGateway: %s declined: code=%s decline=%s", op, stripeErr.Code, stripeErr.DeclineCode)
			return fmt.Errorf("%w: %s", ErrDeclined, stripeErr.Msg)
		case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
			c.log.Warn("PaymentGateway: %s invalid request: %s", op, stripeErr.Msg)
			return fmt.Errorf("%w: %s", ErrInvalidRequest, stripeErr.Msg)
		}
	}

	c.log.Error("PaymentGateway: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
