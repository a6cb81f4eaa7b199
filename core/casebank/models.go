package casebank

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ArKa3003/arkamed/core"
)

// Case categories (clinical presentations)
const (
	CategoryChestPain         = "chest-pain"
	CategoryAbdominalPain     = "abdominal-pain"
	CategoryHeadache          = "headache"
	CategoryTrauma            = "trauma"
	CategoryBackPain          = "back-pain"
	CategoryShortnessOfBreath = "shortness-of-breath"
	CategoryExtremityInjury   = "extremity-injury"
	CategoryNeuroDeficit      = "neuro-deficit"
)

// Specialty tracks
const (
	SpecialtyEM        = "em"
	SpecialtyIM        = "im"
	SpecialtyFM        = "fm"
	SpecialtyPeds      = "peds"
	SpecialtySurgery   = "surgery"
	SpecialtyRadiology = "radiology"
)

// Difficulty levels
const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

var (
	Categories = []string{
		CategoryChestPain,
		CategoryAbdominalPain,
		CategoryHeadache,
		CategoryTrauma,
		CategoryBackPain,
		CategoryShortnessOfBreath,
		CategoryExtremityInjury,
		CategoryNeuroDeficit,
	}

	Specialties = []string{
		SpecialtyEM,
		SpecialtyIM,
		SpecialtyFM,
		SpecialtyPeds,
		SpecialtySurgery,
		SpecialtyRadiology,
	}

	Difficulties = []string{DifficultyEasy, DifficultyModerate, DifficultyHard}
)

func IsCategory(s string) bool   { return linearContains(Categories, s) }
func IsSpecialty(s string) bool  { return linearContains(Specialties, s) }
func IsDifficulty(s string) bool { return linearContains(Difficulties, s) }

func linearContains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

type (
	// ImagingOption is one answer choice on a Case: an imaging study (or none)
	// with its appropriateness rating.
	ImagingOption struct {
		Key             string `json:"key"`
		Label           string `json:"label"`
		Appropriateness int    `json:"appropriateness"` // 1-9, ACR-style
	}

	Case struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		Vignette      string          `json:"vignette"`
		Category      string          `json:"category"`
		Specialties   []string        `json:"specialties"`
		Options       []ImagingOption `json:"options"`
		CorrectOption string          `json:"-"` // never leaked to clients pre-submission
		TeachingPoint string          `json:"-"`
		Difficulty    string          `json:"difficulty"`
		CreatedAt     time.Time       `json:"created_at"` // UTC
		UpdatedAt     time.Time       `json:"updated_at"` // UTC
	}
)

func (c Case) HasSpecialty(tag string) bool { return linearContains(c.Specialties, tag) }

// NewCase contains information needed to add a Case to the bank.
type NewCase struct {
	Title         string          `json:"title" validate:"required"`
	Vignette      string          `json:"vignette" validate:"required"`
	Category      string          `json:"category" validate:"required,category"`
	Specialties   []string        `json:"specialties" validate:"omitempty,dive,specialty"`
	Options       []ImagingOption `json:"options" validate:"required,min=2"`
	CorrectOption string          `json:"correct_option" validate:"required"`
	TeachingPoint string          `json:"teaching_point"`
	Difficulty    string          `json:"difficulty" validate:"required,difficulty"`
}

func (nc *NewCase) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	nc.Difficulty = core.CleanString(nc.Difficulty, true /* lower */)

	if err := validate.Struct(nc); err != nil {
		return err
	}
	for _, opt := range nc.Options {
		if opt.Key == nc.CorrectOption {
			return nil
		}
	}
	return core.NewValidationError(nil, core.FieldError{
		Field: "correct_option", Error: "correct_option must match one of the options",
	})
}

type QueryFilter struct {
	Search     string `query:"search"`
	Category   string `query:"category"`
	Specialty  string `query:"specialty"`
	Difficulty string `query:"difficulty"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Specialty == "" && qf.Difficulty == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Specialty = core.CleanString(qf.Specialty, true /* lower */)
	qf.Difficulty = core.CleanString(qf.Difficulty, true /* lower */)
}
