package databricks

import (
	"fmt"
	"time"
)

// ConnectionError reports a failed remote call: network failure, auth
// rejection, or an unexpected workspace response.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("databricks: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError reports that an operation did not complete within its
// configured bound.
type TimeoutError struct {
	Op      string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("databricks: %s timed out after %s", e.Op, e.Elapsed)
}
