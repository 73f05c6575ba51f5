package xfb

import "errors"

// Sentinel errors. Wrapped errors keep the sentinel reachable through errors.Is.
var (
	// ErrInputEmpty is returned when the compressed source holds no bytes
	ErrInputEmpty = errors.New("xfb: input contains no data")
	// ErrAllocation is returned when a buffer for the decoded image cannot be sized
	ErrAllocation = errors.New("xfb: buffer allocation failed")
	// ErrDecodeHeader is returned when the codec cannot parse the stream header
	ErrDecodeHeader = errors.New("xfb: decoding header failed")
	// ErrDecode is returned when the codec rejects the stream body
	ErrDecode = errors.New("xfb: decoding image failed")
	// ErrInvalidArgument is returned for malformed caller arguments (canvas size, buffers)
	ErrInvalidArgument = errors.New("xfb: invalid argument")
)
