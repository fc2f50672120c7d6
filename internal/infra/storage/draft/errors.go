package draft

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновика нет или истек его TTL
	ErrDraftNotFound = errors.New("draft.store: draft not found")

	// ErrMarshal возвращается при ошибке сериализации черновика
	ErrMarshal = errors.New("draft.store: failed to encode draft")

	// ErrRedis возвращается при ошибках Redis
	ErrRedis = errors.New("draft.store: redis error")
)
