package validator

import (
	"net/mail"
	"strings"

	"slotswap-api/core/controller"
	"slotswap-api/modules/auth/dto"
)

type ValidationResult struct {
	Errors []controller.ValidationError `json:"errors"`
}

func (r *ValidationResult) HasError() bool {
	return len(r.Errors) > 0
}

func (r *ValidationResult) add(field, message string) {
	r.Errors = append(r.Errors, controller.NewValidationError(field, message))
}

func ValidateRegisterRequest(req *dto.RegisterRequest) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(req.Name) == "" {
		result.add("name", "name is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		result.add("email", "a valid email is required")
	}
	if len(req.Password) < 8 {
		result.add("password", "password must be at least 8 characters")
	}

	return result
}

func ValidateLoginRequest(req *dto.LoginRequest) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(req.Email) == "" {
		result.add("email", "email is required")
	}
	if req.Password == "" {
		result.add("password", "password is required")
	}

	return result
}
