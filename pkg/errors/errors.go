package errors

import "fmt"

const (
	// ErrModuleNotFound: no loaded module matched the module hint.
	ErrModuleNotFound = 1
	// ErrFunctionNotFound: no export hash matched in the scanned modules.
	ErrFunctionNotFound = 2
	// ErrMalformedImage: a module's export metadata pointed outside its image.
	ErrMalformedImage = 3
	// ErrSelfLocation: the loader could not report the current module's path.
	ErrSelfLocation = 4
)

var messages = map[uint32]string{
	ErrModuleNotFound:   "module not found",
	ErrFunctionNotFound: "function not found",
	ErrMalformedImage:   "malformed image",
	ErrSelfLocation:     "self location failed",
}

type ResolveError struct {
	Code uint32
}

func (e *ResolveError) Error() string {
	if msg, ok := messages[e.Code]; ok {
		return fmt.Sprintf("hashresolve: %s (code %d)", msg, e.Code)
	}
	return fmt.Sprintf("hashresolve: error code %d", e.Code)
}

// New creates a ResolveError with the given code.
func New(code uint32) error {
	return &ResolveError{Code: code}
}

// IsCode checks if an error carries a specific error code.
func IsCode(err error, code uint32) bool {
	if rErr, ok := err.(*ResolveError); ok {
		return rErr.Code == code
	}
	return false
}
