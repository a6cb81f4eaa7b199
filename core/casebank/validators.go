package casebank

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ArKa3003/arkamed/core"
)

var (
	categoryTag  = "category"
	categoryText = "invalid case category"

	specialtyTag  = "specialty"
	specialtyText = "invalid specialty track"

	difficultyTag  = "difficulty"
	difficultyText = "invalid difficulty level"
)

// InitValidators registers the casebank package's custom validators.
// The "specialty" tag is shared with the user package; whichever package
// registers last wins, both use IsSpecialty.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		return IsCategory(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)

	_ = validate.RegisterValidation(specialtyTag, func(fl validator.FieldLevel) bool {
		return IsSpecialty(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, specialtyTag, specialtyText)

	_ = validate.RegisterValidation(difficultyTag, func(fl validator.FieldLevel) bool {
		return IsDifficulty(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)
}
