package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/textcompare/internal/model"
)

// ErrorResponse is the protocol error payload.
// The embedded status code carries the outcome; the transport status is always 200.
type ErrorResponse struct {
	Message    string `json:"Message"`
	StatusCode int    `json:"Status code"`
	Error      string `json:"Error"`
}

// Protocol status codes
const (
	CodeOK                 = 200
	CodeMissingInput       = 301
	CodeUsernameTaken      = 302
	CodeUnknownUsername    = 303
	CodeWrongPassword      = 304
	CodeInsufficientTokens = 305
	CodeWrongAdminPassword = 306
	CodeInvalidAmount      = 307
	CodeInternalError      = 500
)

// genericMessage is the Message field of every error payload
const genericMessage = "An error happened."

// protocolError pairs a protocol code with its client-facing text
type protocolError struct {
	code int
	text string
}

// Error implements error interface
func (e *protocolError) Error() string {
	return e.text
}

// New creates an error with an explicit code and text
func New(code int, text string) error {
	return &protocolError{code: code, text: text}
}

// WriteError writes an error payload to the response writer
func WriteError(w http.ResponseWriter, err error) {
	pe := toProtocolError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Message:    genericMessage,
		StatusCode: pe.code,
		Error:      pe.text,
	})
}

// Code returns the protocol code err maps to
func Code(err error) int {
	return toProtocolError(err).code
}

// toProtocolError converts an error to a protocolError
func toProtocolError(err error) *protocolError {
	var pe *protocolError
	if errors.As(err, &pe) {
		return pe
	}

	switch {
	case errors.Is(err, model.ErrMissingInput):
		return &protocolError{CodeMissingInput, "Input data is missing."}
	case errors.Is(err, model.ErrAccountExists):
		return &protocolError{CodeUsernameTaken, "Username is already taken."}
	case errors.Is(err, model.ErrAccountNotFound):
		return &protocolError{CodeUnknownUsername, "Username not present in database. Please register."}
	case errors.Is(err, model.ErrWrongPassword):
		return &protocolError{CodeWrongPassword, "Wrong password."}
	case errors.Is(err, model.ErrInsufficientCredits):
		return &protocolError{CodeInsufficientTokens, "Insufficient tokens. Please buy more tokens."}
	case errors.Is(err, model.ErrWrongAdminPassword):
		return &protocolError{CodeWrongAdminPassword, "Wrong admin password. Admin access only."}
	case errors.Is(err, model.ErrInvalidAmount):
		return &protocolError{CodeInvalidAmount, "Refill amount must be a positive integer."}
	case errors.Is(err, model.ErrCreditLimit):
		return &protocolError{CodeInvalidAmount, "Refill would exceed the maximum token balance."}
	default:
		return &protocolError{CodeInternalError, "Internal error."}
	}
}

// NewMissingInputError creates a missing input error
func NewMissingInputError() error {
	return New(CodeMissingInput, "Input data is missing.")
}

// NewInternalError creates an internal error
func NewInternalError() error {
	return New(CodeInternalError, "Internal error.")
}
