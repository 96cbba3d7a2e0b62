package comment

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
)

var (
	typeTag  = "commenttype"
	typeText = "must be one of POSITIVE, NEGATIVE, NEUTRAL or SUGGESTION"
)

// InitValidators registers the comment validations and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(typeTag, typeValidation)
	core.RegisterCustomTranslation(validate, translator, typeTag, typeText)
}

func typeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, t := range AllTypes {
		if val == t {
			return true
		}
	}
	return false
}
