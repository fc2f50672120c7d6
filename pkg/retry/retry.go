package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/m04kA/SMC-MentorBooking/pkg/txmanager"
)

// Policy параметры повторов чтения
type Policy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// OnRetry вызывается перед каждым повтором (метрики, логи). Может быть nil.
	OnRetry func(err error, wait time.Duration)
}

// DefaultPolicy два повтора с экспоненциальной задержкой
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      2,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// Permanent помечает ошибку как неповторяемую (например, not found)
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Read выполняет операцию чтения с повторами.
// Внутри транзакции повторов нет: упавший запрос переводит транзакцию в aborted.
func Read[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	if txmanager.IsInTransaction(ctx) || p.MaxRetries == 0 {
		res, err := op(ctx)
		return res, unwrapPermanent(err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	eb.MaxInterval = p.MaxInterval
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, p.MaxRetries), ctx)

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = backoff.Notify(p.OnRetry)
	}

	res, err := backoff.RetryNotifyWithData(func() (T, error) {
		return op(ctx)
	}, b, notify)
	return res, unwrapPermanent(err)
}

func unwrapPermanent(err error) error {
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return perm.Err
	}
	return err
}
