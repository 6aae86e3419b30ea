package request

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignupRequest is the request body for POST /signup
type SignupRequest struct {
	Username string `json:"Username" validate:"required"`
	Password string `json:"Password" validate:"required"`
}

// CompareRequest is the request body for POST /compare
type CompareRequest struct {
	Username string `json:"Username" validate:"required"`
	Password string `json:"Password" validate:"required"`
	Text1    string `json:"Text1" validate:"required"`
	Text2    string `json:"Text2" validate:"required"`
}

// RefillRequest is the request body for POST /refill.
// Password is the admin password, not the target's.
type RefillRequest struct {
	Username     string       `json:"Username" validate:"required"`
	Password     string       `json:"Password" validate:"required"`
	RefillAmount *json.Number `json:"RefillAmount" validate:"required"`
}

// Decode reads a JSON body into dst and checks its required fields.
// Any failure means the client did not supply the input.
func Decode(body io.Reader, dst any) error {
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("validate request: %w", err)
	}
	return nil
}
