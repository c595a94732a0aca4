package validator

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var oneOf = map[string][]string{
	"roomtype":   {"Standard", "Deluxe", "Suite", "Executive"},
	"roomstatus": {"Available", "Occupied", "Maintenance", "Reserved"},
	"idtype":     {"Aadhar", "PAN", "Driving License", "Passport"},
	"resstatus":  {"confirmed", "checked-in", "checked-out", "cancelled"},
}

func enum(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		for _, allowed := range values {
			if v == allowed {
				return true
			}
		}
		return false
	}
}

func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

func indianPhone(fl validator.FieldLevel) bool {
	return NewPhoneValidator().IsValid(fl.Field().String())
}

// Register adds the hotel binding tags to v
func Register(v *validator.Validate) error {
	for tag, values := range oneOf {
		if err := v.RegisterValidation(tag, enum(values)); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	if err := v.RegisterValidation("isodate", isoDate); err != nil {
		return fmt.Errorf("register isodate: %w", err)
	}
	if err := v.RegisterValidation("inphone", indianPhone); err != nil {
		return fmt.Errorf("register inphone: %w", err)
	}
	return nil
}

// RegisterGinBindings registers the hotel binding tags on gin's default validator
func RegisterGinBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
