package util

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate exposes the validator in the util package.
var Validate *validator.Validate

func init() {
	Validate = validator.New()
	// Report remote field names (mapstructure tags) rather than Go field names.
	Validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
}
