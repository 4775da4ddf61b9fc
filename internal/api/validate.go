package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dgallion1/docscan/internal/extract"
	"github.com/dgallion1/docscan/internal/matcher"
	"github.com/go-playground/validator/v10"
)

type patternForm struct {
	Pattern string `form:"pattern" validate:"required,max=1000,regexp"`
}

type headingForm struct {
	Heading string `form:"heading" validate:"required,heading"`
}

type jobForm struct {
	Mode string `form:"mode" validate:"required,oneof=pattern heading"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	v.RegisterValidation("regexp", func(fl validator.FieldLevel) bool {
		_, err := matcher.Compile(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("heading", func(fl validator.FieldLevel) bool {
		return extract.ValidateHeading(fl.Field().String()) == nil
	})
	return v
}

// validationMessage turns the first validation failure into a client-facing
// message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "regexp":
		return fmt.Sprintf("%s is not a valid regular expression", field)
	case "heading":
		return fmt.Sprintf("%s must be printable text of at most %d characters", field, extract.MaxHeadingRunes)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
