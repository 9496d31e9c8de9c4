package retention

import "errors"

var (
	ErrPolicyNotFound   = errors.New("retention policy not found")
	ErrInvalidPolicy    = errors.New("invalid retention policy")
	ErrSweepInProgress  = errors.New("retention sweep already in progress")
	ErrNoEventIDs       = errors.New("no event ids given")
	ErrPurgeNotRecorded = errors.New("purge record could not be made durable")
)
