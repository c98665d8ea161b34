package validator

import (
	"laurent/pkg/logger"
	"laurent/pkg/model"
	"laurent/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type CustomerValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCustomerValidator(log *logger.Logger) *CustomerValidator {
	return &CustomerValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *CustomerValidator) Validate(customer *model.Customer) error {
	return validation.Struct(v.validate, customer)
}

func (v *CustomerValidator) ValidateUpdate(update *model.CustomerUpdate) error {
	return validation.Struct(v.validate, update)
}
