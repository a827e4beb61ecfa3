package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// HTTPError wraps a non-success upstream response.
type HTTPError struct {
	Message    string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHTTPError creates an HTTPError from an HTTP response, consuming its body.
func NewHTTPError(resp *http.Response) *HTTPError {
	body, _ := io.ReadAll(resp.Body)
	return &HTTPError{
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
}

// Kind enumerates the error responses a relay handler can produce.
type Kind int

const (
	KindForbidden Kind = iota
	KindBadRequest
	KindMethodNotAllowed
	KindMisconfigured
	KindUpstream
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindForbidden:
		return "forbidden"
	case KindBadRequest:
		return "bad_request"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindMisconfigured:
		return "misconfigured"
	case KindUpstream:
		return "upstream"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a handler failure that knows its status code and response body.
type Error struct {
	Kind    Kind
	Message string

	// Origin is echoed back on Forbidden responses.
	Origin string
	// Detail is only emitted when non-nil; an empty detail is still written.
	Detail *string
	// Status overrides the default status for Upstream errors.
	Status int
}

func (e *Error) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, *e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// StatusCode maps the error kind to its HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindForbidden:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		if e.Status >= 100 && e.Status <= 999 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON error body returned to callers.
type ErrorResponse struct {
	Error  string  `json:"error"`
	Origin *string `json:"origin,omitempty"`
	Detail *string `json:"detail,omitempty"`
}

// Body builds the response body for the error.
func (e *Error) Body() ErrorResponse {
	resp := ErrorResponse{Error: e.Message, Detail: e.Detail}
	if e.Kind == KindForbidden {
		origin := e.Origin
		resp.Origin = &origin
	}
	return resp
}

func Forbidden(message, origin string) *Error {
	return &Error{Kind: KindForbidden, Message: message, Origin: origin}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: "Method not allowed"}
}

// Misconfigured reports missing server-side configuration. It never carries detail.
func Misconfigured(message string) *Error {
	return &Error{Kind: KindMisconfigured, Message: message}
}

// Upstream relays a third-party failure with its status and raw body.
func Upstream(message string, status int, body string) *Error {
	return &Error{Kind: KindUpstream, Message: message, Status: status, Detail: &body}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal reports an unexpected failure. A nil cause yields a body without detail.
func Internal(cause error) *Error {
	e := &Error{Kind: KindInternal, Message: "server_error"}
	if cause != nil {
		detail := cause.Error()
		e.Detail = &detail
	}
	return e
}

// WriteError writes err as a JSON error response. Errors that are not *Error
// become a detail-free Internal response.
func WriteError(w http.ResponseWriter, err error) {
	var relayErr *Error
	if !errors.As(err, &relayErr) {
		slog.Error("unhandled error", "error", err)
		relayErr = Internal(nil)
	}

	status := relayErr.StatusCode()
	if status >= http.StatusInternalServerError {
		slog.Error("request error", "kind", relayErr.Kind.String(), "status", status, "message", relayErr.Message)
	} else {
		slog.Debug("request rejected", "kind", relayErr.Kind.String(), "status", status, "message", relayErr.Message)
	}

	WriteJSON(w, status, relayErr.Body())
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// WriteRawJSON writes an already encoded JSON document.
func WriteRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
