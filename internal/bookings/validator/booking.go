package validator

import (
	"fmt"
	"regexp"

	"laurent/pkg/logger"
	"laurent/pkg/model"
	"laurent/pkg/validation"

	"github.com/go-playground/validator/v10"
)

var (
	bookingTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)
)

type BookingValidator struct {
	validate  *validator.Validate
	maxGuests int
	logger    *logger.Logger
}

func NewBookingValidator(log *logger.Logger, maxGuests int) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("booking_time", validateBookingTime); err != nil {
		log.Fatal("Failed to register 'booking_time' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully", "max_guests", maxGuests)

	return &BookingValidator{
		validate:  v,
		maxGuests: maxGuests,
		logger:    log,
	}
}

func validateBookingTime(fl validator.FieldLevel) bool {
	return bookingTimeRegex.MatchString(fl.Field().String())
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}

	if booking.Guests > v.maxGuests {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "Guests",
				Message: fmt.Sprintf("guests (%d) exceeds the maximum party size (%d)", booking.Guests, v.maxGuests),
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateUpdate(update *model.BookingUpdate) error {
	if err := validation.Struct(v.validate, update); err != nil {
		return err
	}

	if update.Guests != nil && update.Guests.Int() < 1 {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "Guests",
				Message: "Guests must be at least 1",
			},
		}
	}
	if update.TableNumber != nil && update.TableNumber.Int() < 1 {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "TableNumber",
				Message: "TableNumber must be at least 1",
			},
		}
	}

	return nil
}
