package lilt

import "errors"

var (
	ErrEmptyInput         = errors.New("no samples to compress")
	ErrInvalidOrder       = errors.New("model order out of range")
	ErrInvalidBits        = errors.New("bits per sample out of range")
	ErrInvalidBlockSize   = errors.New("block size out of range")
	ErrCorruptStream      = errors.New("corrupt or truncated stream")
	ErrUnsupportedVersion = errors.New("unsupported stream version")
)
