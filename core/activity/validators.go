package activity

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasalabs/darasa/core"
)

var (
	activityStateTag  = "activitystate"
	activityStateText = "invalid activity state"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(activityStateTag, activityStateValidation)
	core.RegisterCustomTranslation(validate, translator, activityStateTag, activityStateText)
}

// activityStateValidation checks that the provided state is one of AllStates
func activityStateValidation(fl validator.FieldLevel) bool {
	state := fl.Field().String()
	for _, s := range AllStates {
		if state == s {
			return true
		}
	}
	return false
}
