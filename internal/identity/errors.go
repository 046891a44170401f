package identity

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider API operations.
var (
	ErrUnauthorized = errors.New("identity: unauthorized")
	ErrRateLimited  = errors.New("identity: rate limited by provider")
	ErrBadRequest   = errors.New("identity: bad request")
	ErrServer       = errors.New("identity: provider server error")
	ErrNoToken      = errors.New("identity: token response carried no access token")
	ErrNoProfile    = errors.New("identity: profile response carried no account id")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "exchangeCode", "profile", "revoke"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op string, err error) error {
	return &Error{Op: op, Err: err}
}
