package observability

import "go.uber.org/zap"

// Field constructors re-exported so callers do not need a direct zap import.
var (
	String = zap.String
	Int    = zap.Int
	Bool   = zap.Bool
	Error  = zap.Error
	Any    = zap.Any
)
