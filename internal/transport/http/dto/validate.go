package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/course-feedback/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return domain.IsEmailShape(fl.Field().String())
	})
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		return domain.IsValidRating(int(fl.Field().Int()))
	})
	return v
}

// rules maps a failed validation tag to the domain error reported for it.
// Tags missing from rules fall back to a generic invalid_field error.
type rules map[string]func(field string) error

// check validates s and returns the error of the first rule that failed,
// in the order given by precedence.
func check(s any, precedence []string, r rules) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInternal(err)
	}

	failed := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := failed[fe.Tag()]; !seen {
			failed[fe.Tag()] = fe.Field()
		}
	}
	for _, tag := range precedence {
		if field, ok := failed[tag]; ok {
			if fn, ok := r[tag]; ok {
				return fn(field)
			}
		}
	}
	fe := verrs[0]
	return domain.ErrInvalidField(fe.Field(), "Invalid "+fe.Field())
}
