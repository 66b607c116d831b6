package contracts

import "errors"

var (
	ErrNoPendingAnalysis = errors.New("no pending analysis")
	ErrInvalidInput      = errors.New("invalid input")
)
