package codec

import "errors"

var (
	ErrUnknownAlgorithm = errors.New("no adapter registered for algorithm")
	ErrInvalidParam     = errors.New("invalid evaluator parameter")
	ErrExternalTool     = errors.New("external tool failed")
)
