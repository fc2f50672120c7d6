package notifier

import "errors"

var (
	ErrMarshal = errors.New("notifier: failed to marshal payload")
	ErrEnqueue = errors.New("notifier: failed to enqueue task")
)
