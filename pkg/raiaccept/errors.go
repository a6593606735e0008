package raiaccept

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidArgument is matched by every *InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a required parameter that was missing or
// empty. It is returned before any network activity.
type InvalidArgumentError struct {
	Param     string
	Operation string
	Hint      string
}

func (e *InvalidArgumentError) Error() string {
	msg := fmt.Sprintf("missing the required parameter %s when calling %s", e.Param, e.Operation)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func missing(param, operation string) error {
	return &InvalidArgumentError{Param: param, Operation: operation}
}

// APIError is returned whenever the gateway answers with a status outside
// 200-299.
type APIError struct {
	Message    string
	StatusCode int
	Headers    http.Header
	Body       string

	object any
}

func newAPIError(req *Request, resp *Response) *APIError {
	return &APIError{
		Message:    fmt.Sprintf("[%d] Error connecting to the API (%s)", resp.StatusCode, req.URL),
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

func (e *APIError) Error() string {
	return e.Message
}

// ResponseObject returns the decoded error body. It is only populated for
// status 400 on endpoints that declare an error shape.
func (e *APIError) ResponseObject() any {
	return e.object
}

// ErrorResponse returns the decoded body as an *ErrorResponse, if present.
func (e *APIError) ErrorResponse() (*ErrorResponse, bool) {
	er, ok := e.object.(*ErrorResponse)
	return er, ok && er != nil
}

// DecodeError is returned when a 2xx response carries a body that is not
// valid JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
