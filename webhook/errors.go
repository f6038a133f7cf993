package webhook

import (
	"errors"
	"fmt"
)

// Error codes recorded in execution stats and history
const (
	ErrorCodeExecution  = 801
	ErrorCodeResponse   = 802
	ErrorCodeUnexpected = 999
)

// Error classes recorded in history
const (
	ClassExecution  = "ExecutionError"
	ClassResponse   = "ResponseError"
	ClassUnexpected = "UnexpectedError"
)

const noResponseCode = "endpoint returned no response code"

/* ExecutionError is a transport level failure
 * Connection refused, DNS, timeout, I/O, or a response without status code
 */
type ExecutionError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExecutionError) Error() string {
	return e.Message
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// NewExecutionError wraps a transport failure
func NewExecutionError(err error) *ExecutionError {
	return &ExecutionError{Code: ErrorCodeExecution, Message: err.Error(), Err: err}
}

// ResponseError is a non-2xx answer from a reachable endpoint
type ResponseError struct {
	StatusCode int
	Reason     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("endpoint returned %d %s", e.StatusCode, e.Reason)
}

// UnexpectedError is any failure the other kinds do not describe
type UnexpectedError struct {
	Message string
	Err     error
}

func (e *UnexpectedError) Error() string {
	return e.Message
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// NewUnexpectedError wraps an error or a recovered panic value
func NewUnexpectedError(v any) *UnexpectedError {
	if err, ok := v.(error); ok {
		return &UnexpectedError{Message: fmt.Sprintf("unexpected error: %v", err), Err: err}
	}
	return &UnexpectedError{Message: fmt.Sprintf("unexpected error: %v", v)}
}

// ErrorCode returns the error code carried by err, 0 for nil
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Code
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return ErrorCodeResponse
	}
	return ErrorCodeUnexpected
}

// ErrorClass names the kind of err for history records
func ErrorClass(err error) string {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return ClassExecution
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return ClassResponse
	}
	return ClassUnexpected
}
