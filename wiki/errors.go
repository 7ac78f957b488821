package wiki

import (
	"errors"
	"fmt"
)

// Error codes for programmatic error handling
type ErrorCode string

const (
	NotFoundCodePage     ErrorCode = "NOT_FOUND_PAGE"
	ProtocolCodeViolated ErrorCode = "PROTOCOL_VIOLATION"
	TransportCodeFailure ErrorCode = "TRANSPORT_FAILURE"
	ParseCodeFailure     ErrorCode = "PARSE_FAILURE"
	APICodeError         ErrorCode = "API_ERROR"
)

// ErrNoMorePages is returned by Paginated.Next when the last page has been reached
var ErrNoMorePages = errors.New("no more pages")

// PageNotFoundError indicates a title or page id had no matching entry in the response
type PageNotFoundError struct {
	Title  string
	PageID int
}

func (e *PageNotFoundError) Error() string {
	if e.PageID != 0 {
		return fmt.Sprintf("page not found: %s (id %d)", e.Title, e.PageID)
	}
	return fmt.Sprintf("page not found: %s", e.Title)
}

// ErrorCode returns the structured error code for programmatic handling
func (e *PageNotFoundError) ErrorCode() ErrorCode {
	return NotFoundCodePage
}

// ProtocolError indicates a response that breaks an invariant of the API contract
type ProtocolError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error in %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error in %s: %s", e.Op, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ErrorCode returns the structured error code for programmatic handling
func (e *ProtocolError) ErrorCode() ErrorCode {
	return ProtocolCodeViolated
}

// TransportError wraps network and HTTP failures. StatusCode is 0 when no response arrived.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrorCode returns the structured error code for programmatic handling
func (e *TransportError) ErrorCode() ErrorCode {
	return TransportCodeFailure
}

// ParseError wraps a failure of the infobox parser
type ParseError struct {
	Title string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse infobox of %s: %v", e.Title, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorCode returns the structured error code for programmatic handling
func (e *ParseError) ErrorCode() ErrorCode {
	return ParseCodeFailure
}

// APIError is an error object reported by the wiki itself (bad parameter, unknown action, ...)
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error [%s]: %s", e.Code, e.Info)
}

// ErrorCode returns the structured error code for programmatic handling
func (e *APIError) ErrorCode() ErrorCode {
	return APICodeError
}

// IsNotFound returns true if err is or wraps a PageNotFoundError
func IsNotFound(err error) bool {
	var target *PageNotFoundError
	return errors.As(err, &target)
}

// IsProtocol returns true if err is or wraps a ProtocolError
func IsProtocol(err error) bool {
	var target *ProtocolError
	return errors.As(err, &target)
}

// IsTransport returns true if err is or wraps a TransportError
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsParse returns true if err is or wraps a ParseError
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// Code extracts the ErrorCode from err, or "" if it carries none
func Code(err error) ErrorCode {
	var coded interface{ ErrorCode() ErrorCode }
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return ""
}
