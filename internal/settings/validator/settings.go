package validator

import (
	"laurent/pkg/model"
	"laurent/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type SettingsValidator struct {
	validate *validator.Validate
}

func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{validate: validator.New()}
}

func (v *SettingsValidator) ValidateUpdate(update *model.SettingsUpdate) error {
	return validation.Struct(v.validate, update)
}
