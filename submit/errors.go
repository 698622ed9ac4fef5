package submit

import (
	"errors"
	"fmt"
	"time"
)

// GenericFailureMessage is shown when the server does not provide an error
// message of its own.
const GenericFailureMessage = "حدث خطأ أثناء إرسال التصويت، حاول مرة أخرى"

// ErrSubmitInFlight is returned when Submit is called while a previous
// submission has not finished.
var ErrSubmitInFlight = errors.New("submission already in progress")

// InsufficientSelectionsError means fewer candidates were placed than the
// poll's minimum. It is raised before any network call.
type InsufficientSelectionsError struct {
	Placed int
	Min    int
}

func (e *InsufficientSelectionsError) Error() string {
	return fmt.Sprintf("placed %d candidates, need at least %d", e.Placed, e.Min)
}

// CooldownActiveError means the client-side rate limit from a prior
// successful submission has not elapsed yet.
type CooldownActiveError struct {
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("cooldown active, %d seconds remaining", e.RemainingSeconds())
}

// RemainingSeconds rounds the remaining wait up to whole seconds for
// countdown display.
func (e *CooldownActiveError) RemainingSeconds() int {
	return int((e.Remaining + time.Second - 1) / time.Second)
}

// ServerError carries a non-2xx response. Message is the server-provided
// error text when present, else GenericFailureMessage.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("submit failed with status %d: %s", e.StatusCode, e.Message)
}

// TransportError wraps a network-level failure. Message() gives the
// user-facing fallback text.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("submit request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Message() string {
	return GenericFailureMessage
}
