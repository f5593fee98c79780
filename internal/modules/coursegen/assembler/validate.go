package assembler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/coursegen-backend/internal/modules/coursegen"
	apperr "github.com/yungbote/coursegen-backend/internal/pkg/errors"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// normalize trims free-text fields so whitespace-only values count as missing.
func normalize(p coursegen.CourseParameters) coursegen.CourseParameters {
	p.Topic = strings.TrimSpace(p.Topic)
	p.Category = strings.TrimSpace(p.Category)
	p.Level = coursegen.Level(strings.TrimSpace(string(p.Level)))
	p.LearningGoal = coursegen.LearningGoal(strings.TrimSpace(string(p.LearningGoal)))
	return p
}

// validateParams returns a *apperr.ValidationError listing every absent field
// and every field with an invalid value.
func validateParams(v *validator.Validate, p coursegen.CourseParameters) error {
	err := v.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate course parameters: %w", err)
	}
	out := &apperr.ValidationError{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out.Missing = append(out.Missing, fe.Field())
		case "oneof":
			out.Invalid = append(out.Invalid, apperr.FieldError{
				Field:   fe.Field(),
				Value:   fmt.Sprint(fe.Value()),
				Allowed: strings.Fields(fe.Param()),
			})
		case "gt":
			out.Invalid = append(out.Invalid, apperr.FieldError{
				Field:  fe.Field(),
				Value:  fmt.Sprint(fe.Value()),
				Reason: "must be a positive number",
			})
		default:
			out.Invalid = append(out.Invalid, apperr.FieldError{
				Field:  fe.Field(),
				Value:  fmt.Sprint(fe.Value()),
				Reason: "failed " + fe.Tag(),
			})
		}
	}
	return out
}
