package validate

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var alphanumericUnderscoresPeriodsRegex = regexp.MustCompile("^[\\w.]*$")

const maxStringLength = 600

// RegisterCustomValidators installs this module's binding validators on gin's
// validator engine
func RegisterCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("username", usernameValidator)
		v.RegisterValidation("max_string_length", maxStringLengthValidator)
	}
}

var usernameValidator validator.Func = func(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	return len(username) >= 2 && len(username) <= 50 && alphanumericUnderscoresPeriodsRegex.MatchString(username)
}

var maxStringLengthValidator validator.Func = func(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxStringLength
}
