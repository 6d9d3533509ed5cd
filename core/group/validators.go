package group

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasalabs/darasa/core"
)

var (
	memberRoleTag  = "memberrole"
	memberRoleText = "invalid member role"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(memberRoleTag, memberRoleValidation)
	core.RegisterCustomTranslation(validate, translator, memberRoleTag, memberRoleText)
}

// memberRoleValidation checks that the provided role is one of MemberRoles
func memberRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range MemberRoles {
		if role == r {
			return true
		}
	}
	return false
}
