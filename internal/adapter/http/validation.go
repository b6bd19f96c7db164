package http

import (
	"regexp"

	"compliance-portal/internal/domain/organization"
	"compliance-portal/internal/domain/submission"
	usecase "compliance-portal/internal/usecase/submission"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// record ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// a roster organization, case-insensitive
	_ = v.RegisterValidation("orgcode", func(fl validator.FieldLevel) bool {
		_, ok := organization.Parse(fl.Field().String())
		return ok
	})
	// a roster organization or the ALL broadcast
	_ = v.RegisterValidation("orgtarget", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if c, _ := organization.Parse(raw); c == organization.All {
			return true
		}
		_, ok := organization.Parse(raw)
		return ok
	})
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		_, ok := submission.ParseKind(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("reportkind", func(fl validator.FieldLevel) bool {
		k, ok := submission.ParseKind(fl.Field().String())
		return ok && k.IsReport()
	})
	_ = v.RegisterValidation("decision", func(fl validator.FieldLevel) bool {
		switch usecase.Decision(fl.Field().String()) {
		case usecase.DecisionApprove, usecase.DecisionReject, usecase.DecisionRevise:
			return true
		}
		return false
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "orgcode":
			out = append(out, FieldError{Field: field, Message: "must be a known organization code"})
		case "orgtarget":
			out = append(out, FieldError{Field: field, Message: "must be a known organization code or ALL"})
		case "kind":
			out = append(out, FieldError{Field: field, Message: "must be a submission kind"})
		case "reportkind":
			out = append(out, FieldError{Field: field, Message: "must be accomplishment_report or liquidation_report"})
		case "decision":
			out = append(out, FieldError{Field: field, Message: "must be approve, reject or revise"})
		case "url":
			out = append(out, FieldError{Field: field, Message: "must be a URL"})
		case "datetime":
			out = append(out, FieldError{Field: field, Message: "must be a date formatted " + e.Param()})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " characters"})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
