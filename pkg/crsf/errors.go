package crsf

import "errors"

var (
	// ErrPayloadTooLarge indicates the payload doesn't fit in a frame.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnknownCommand indicates the command name is not known.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrShortPayload indicates a payload shorter than its type requires.
	ErrShortPayload = errors.New("short payload")
	// ErrLengthOutOfRange indicates a length field outside the frame limits.
	// The parser resyncs when this happens.
	ErrLengthOutOfRange = errors.New("frame length out of range")
	// ErrChecksumMismatch indicates a corrupted frame, which is discarded.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
