package errors

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

// IsTimeoutError reports whether err is a deadline expiry: a context deadline, a
// net.Error timing out, os.ErrDeadlineExceeded, or an ERR_PEER_TIMEOUT error.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) && tErr.Code() == ERR_PEER_TIMEOUT {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// IsWireError reports whether err carries one of the wire codec codes.
func IsWireError(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if !As(err, &tErr) {
		return false
	}

	for e := tErr; e != nil; {
		switch e.Code() {
		case ERR_WIRE_BAD_MAGIC,
			ERR_WIRE_CHECKSUM_MISMATCH,
			ERR_WIRE_TRUNCATED,
			ERR_WIRE_PAYLOAD_TOO_BIG,
			ERR_WIRE_INVALID_COMMAND:
			return true
		}

		next, ok := e.WrappedErr().(*Error)
		if !ok {
			break
		}

		e = next
	}

	return false
}

// IsNetworkError determines if an error is network-related.
// This includes timeouts, connection failures, and closed streams.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var tErr *Error
	if As(err, &tErr) {
		switch tErr.Code() {
		case ERR_PEER_CONNECT,
			ERR_PEER_IO,
			ERR_PEER_TIMEOUT:
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkStrings := []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no route to host",
		"network is unreachable",
		"eof",
	}

	for _, s := range networkStrings {
		if strings.Contains(errStr, s) {
			return true
		}
	}

	return false
}

// IsContextError determines if an error is related to context cancellation or deadline.
func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var tErr *Error
	if As(err, &tErr) {
		if tErr.Code() == ERR_CONTEXT_CANCELED || tErr.Code() == ERR_CONTEXT {
			return true
		}
	}

	return false
}
