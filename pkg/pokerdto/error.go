package pokerdto

import "fmt"

// DealerError is a dealer rejection surfaced to callers. Retryable marks
// transient server-side failures; action rejections (400) are never retried.
type DealerError struct {
	Status    int
	Message   string
	Retryable bool
}

func (e *DealerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("dealer: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("dealer: status %d", e.Status)
}
