package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Name   string `validate:"required"`
	Email  string `validate:"omitempty,email"`
	Status string `validate:"omitempty,oneof=open closed"`
}

func TestStruct_TranslatesTagFailures(t *testing.T) {
	err := Struct(validator.New(), &sample{Email: "not-an-email", Status: "maybe"})

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(verrs), verrs)
	}

	details := verrs.Details()
	if details["Name"] != "Name is required" {
		t.Errorf("unexpected Name message: %v", details["Name"])
	}
	if details["Email"] != "Email must be a valid email address" {
		t.Errorf("unexpected Email message: %v", details["Email"])
	}
	if details["Status"] != "Status must be one of: open closed" {
		t.Errorf("unexpected Status message: %v", details["Status"])
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(validator.New(), &sample{Name: "x"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
