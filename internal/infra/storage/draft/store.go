package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-MentorBooking/internal/domain"
)

const keyPrefix = "booking_flow:"

// Store хранит черновики бронирования в Redis с TTL.
// Каждое сохранение продлевает TTL.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStore создает хранилище черновиков
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

// Save сохраняет черновик целиком
func (s *Store) Save(ctx context.Context, d *domain.BookingDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal draft id=%s: %v", ErrMarshal, d.ID, err)
	}

	if err := s.client.Set(ctx, key(d.ID), string(data), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set draft id=%s: %v", ErrRedis, d.ID, err)
	}

	return nil
}

// Replace перезаписывает существующий черновик (SET XX). Если черновик уже удален
// или истек, возвращает ErrDraftNotFound и ничего не создает.
func (s *Store) Replace(ctx context.Context, d *domain.BookingDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%w: Replace - marshal draft id=%s: %v", ErrMarshal, d.ID, err)
	}

	ok, err := s.client.SetXX(ctx, key(d.ID), string(data), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Replace - set draft id=%s: %v", ErrRedis, d.ID, err)
	}
	if !ok {
		return ErrDraftNotFound
	}

	return nil
}

// Get получает черновик по ID
func (s *Store) Get(ctx context.Context, id string) (*domain.BookingDraft, error) {
	data, err := s.client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get draft id=%s: %v", ErrRedis, id, err)
	}

	var d domain.BookingDraft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal draft id=%s: %v", ErrMarshal, id, err)
	}

	return &d, nil
}

// Delete удаляет черновик. Отсутствующий черновик не считается ошибкой.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del draft id=%s: %v", ErrRedis, id, err)
	}
	return nil
}
