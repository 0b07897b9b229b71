package engine

import "errors"

// TransientError marks a failure that the loop should retry with
// backoff: the comment section not loading, a stale element, a network
// hiccup. Anything not marked transient aborts the loop.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable failure. A nil err returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether any error in the chain is transient.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
