package grid

import "fmt"

// LoopOption is a functional option for configuring a Loop.
type LoopOption func(*Loop) error

// WithQueueSize sets the capacity of the update queue.
// Default is 256. Must be at least 1.
func WithQueueSize(size int) LoopOption {
	return func(l *Loop) error {
		if size < 1 {
			return fmt.Errorf("queue size must be at least 1")
		}
		l.queueSize = size
		return nil
	}
}
