package alert

import (
	"errors"
	"fmt"
)

var (
	ErrThrottled     = errors.New("alert channel throttled")
	ErrNoRecipients  = errors.New("alert channel has no recipients")
	ErrUnexpectedRes = errors.New("unexpected response from alert endpoint")
)

// DeliveryError reports a failed delivery on one channel. Failures on other
// channels are unaffected.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("alert channel %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
