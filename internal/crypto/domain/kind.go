package domain

import (
	"github.com/allisson/capacity-planner/internal/errors"
)

// ErrorKind tags an envelope encryption failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotInitialized
	KindKeyIO
	KindKeyParse
	KindMalformedBlob
	KindAuthenticationFailure
	KindEncoding
)

// String returns the kind name used in logs and CLI output.
func (k ErrorKind) String() string {
	switch k {
	case KindNotInitialized:
		return "not_initialized"
	case KindKeyIO:
		return "key_io"
	case KindKeyParse:
		return "key_parse"
	case KindMalformedBlob:
		return "malformed_blob"
	case KindAuthenticationFailure:
		return "authentication_failure"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Errors that do not come from this package return KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, ErrKeyIO):
		return KindKeyIO
	case errors.Is(err, ErrKeyParse):
		return KindKeyParse
	case errors.Is(err, ErrMalformedBlob):
		return KindMalformedBlob
	case errors.Is(err, ErrAuthenticationFailed):
		return KindAuthenticationFailure
	case errors.Is(err, ErrInvalidEncoding):
		return KindEncoding
	default:
		return KindUnknown
	}
}
