package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/casebank"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	specialtyTag  = "specialty"
	specialtyText = "invalid specialty track"
)

// InitValidators registers the user package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(specialtyTag, specialtyValidation)
	core.RegisterCustomTranslation(validate, translator, specialtyTag, specialtyText)
}

func roleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func specialtyValidation(fl validator.FieldLevel) bool {
	return casebank.IsSpecialty(fl.Field().String())
}
