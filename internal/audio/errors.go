package audio

import "errors"

var (
	ErrUnsupportedFormat = errors.New("no decoder registered for file extension")
	ErrInvalidFile       = errors.New("invalid or corrupt audio file")
	ErrOnlyPCM16Bit      = errors.New("only PCM 16-bit input supported")
	ErrNoSamples         = errors.New("file contains no samples")
)
