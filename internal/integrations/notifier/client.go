package notifier

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

const maxRetry = 5

// Client ставит задачи уведомлений в очередь asynq (Redis)
type Client struct {
	queue  string
	client enqueuer
	log    Logger
}

// NewClient создает клиента asynq поверх того же Redis, что и хранилище черновиков
func NewClient(redisAddr, redisPassword string, redisDB int, queue string, log Logger) *Client {
	c := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
	return &Client{queue: queue, client: c, log: log}
}

// SessionBooked ставит уведомление о созданной сессии.
// TaskID = session ID, повторная постановка для той же сессии отклоняется asynq.
func (c *Client) SessionBooked(ctx context.Context, p SessionBooked) error {
	task, err := NewSessionBookedTask(p)
	if err != nil {
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(maxRetry),
		asynq.TaskID(fmt.Sprintf("session-booked-%d", p.SessionID)),
	)
	if err != nil {
		c.log.Warn("Notifier: failed to enqueue %s for session_id=%d: %v", TypeSessionBooked, p.SessionID, err)
		return fmt.Errorf("%w: %v", ErrEnqueue, err)
	}

	c.log.Info("Notifier: enqueued %s id=%s queue=%s", TypeSessionBooked, info.ID, info.Queue)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
