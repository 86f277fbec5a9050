package validator

import (
	"errors"
	"fmt"
	"strings"

	"skyseat/pkg/logger"
	"skyseat/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SessionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSessionValidator(log *logger.Logger) *SessionValidator {
	v := validator.New()

	log.Info("Session validator initialized successfully")

	return &SessionValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateCreate checks a session-creation request in a fixed order so the
// caller always learns the earliest problem: passenger counts, then segment
// count, then trip-type match, then the direction set.
func (v *SessionValidator) ValidateCreate(req *model.CreateSessionRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.Passengers.Infants > req.Passengers.Adults {
		return ValidationErrors{
			ValidationError{
				Field:   "Passengers",
				Message: "infants cannot outnumber adults",
			},
		}
	}

	if req.Passengers.Adults+req.Passengers.Children > 9 {
		return ValidationErrors{
			ValidationError{
				Field:   "Passengers",
				Message: "at most 9 seated passengers per session",
			},
		}
	}

	expected := 1
	if req.TripType == model.TripTypeRoundTrip {
		expected = 2
	}
	if len(req.Segments) != expected {
		return ValidationErrors{
			ValidationError{
				Field:   "Segments",
				Message: fmt.Sprintf("%s requires exactly %d segment(s), got %d", req.TripType, expected, len(req.Segments)),
			},
		}
	}

	directions := make(map[string]int, len(req.Segments))
	for _, seg := range req.Segments {
		directions[seg.Direction]++
	}
	switch req.TripType {
	case model.TripTypeOneWay:
		if directions[model.DirectionOutbound] != 1 {
			return ValidationErrors{
				ValidationError{
					Field:   "Segments",
					Message: "ONE_WAY requires a single OUTBOUND segment",
				},
			}
		}
	case model.TripTypeRoundTrip:
		if directions[model.DirectionOutbound] != 1 || directions[model.DirectionInbound] != 1 {
			return ValidationErrors{
				ValidationError{
					Field:   "Segments",
					Message: "ROUND_TRIP requires one OUTBOUND and one INBOUND segment",
				},
			}
		}
	}

	return nil
}

func (v *SessionValidator) ValidateSeatAssignment(req *model.AssignSeatRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SessionValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
