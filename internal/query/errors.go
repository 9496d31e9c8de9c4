package query

import "errors"

var (
	ErrReportNotFound   = errors.New("compliance report not found")
	ErrUnknownFramework = errors.New("unknown compliance framework")
	ErrInvalidPeriod    = errors.New("report period end must be after start")
	ErrInvalidRange     = errors.New("invalid sequence range")
	ErrChainMismatch    = errors.New("events belong to different chains")
)
