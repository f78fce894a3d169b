package handler

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/freeeve/pokebattle/internal/protocol"
)

// Common wire error messages. Codes are HTTP-ish ints carried inside the
// Error payload; the connection itself stays open.
const (
	msgBadRequest       = "Bad request"
	msgInvalidFields    = "Request contains invalid fields."
	msgAlreadyConnected = "Already connected"
	msgNotFound         = "Not found"
)

// sendError delivers a structured Error payload to one session.
func sendError(s *Session, code int, msg string, details map[string]string) {
	s.sendMessage(protocol.ServerError, protocol.ErrorPayload{
		Code:    code,
		Msg:     msg,
		Details: details,
	})
}

func sendBadRequest(s *Session, detail string) {
	sendError(s, http.StatusBadRequest, msgBadRequest, map[string]string{"error": detail})
}

// validateStruct runs validator tags over an inbound payload and flattens
// any violations into the details map of a wire Error.
func validateStruct(v *validator.Validate, target any) (map[string]string, bool) {
	err := v.Struct(target)
	if err == nil {
		return nil, true
	}

	details := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, ve := range verrs {
			details[ve.Field()] = formatValidationError(ve)
		}
	} else {
		details["error"] = err.Error()
	}
	return details, false
}

func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s elements", ve.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", ve.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed validation on rule '%s'", ve.Tag())
	}
}
