package accessory

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	// ErrListenerRegistration indicates the device status listener could not be set.
	ErrListenerRegistration = errors.New("device status listener registration failed")

	// ErrAgentRequest indicates the local agent request failed.
	ErrAgentRequest = errors.New("agent request failed")

	// ErrPeerDiscovery indicates peer discovery failed.
	ErrPeerDiscovery = errors.New("peer discovery failed")

	// ErrServiceConnection indicates the service connection failed.
	ErrServiceConnection = errors.New("service connection failed")

	// ErrNotConnected indicates a send without a connected socket.
	ErrNotConnected = errors.New("not connected")

	// ErrSocketLost indicates the socket's transport went away.
	ErrSocketLost = errors.New("socket lost")

	// ErrNoAgent indicates an agent request that returned no agents.
	ErrNoAgent = errors.New("no-agent")
)

// CodeError is a platform error with a machine-readable code.
type CodeError struct {
	Code string
	Err  error
}

// NewCodeError creates a CodeError.
func NewCodeError(code string, err error) *CodeError {
	return &CodeError{Code: code, Err: err}
}

func (e *CodeError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *CodeError) Unwrap() error { return e.Err }

// ErrorCode returns the code of the first CodeError in err's chain, or the
// error text when there is none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return err.Error()
}

func detail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
