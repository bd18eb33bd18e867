package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrQueueFull   = errors.New("award queue full")
	ErrQueueClosed = errors.New("award queue closed")
)
