package speech

import "errors"

var (
	ErrNotConfigured   = errors.New("provider not configured")
	ErrNotRegistered   = errors.New("provider not registered")
	ErrDisabled        = errors.New("provider disabled")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid response")
	ErrNotSupported    = errors.New("not supported")

	ErrUnsupportedFormat = errors.New("unsupported audio format")
)
