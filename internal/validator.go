package internal

import (
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

func NewValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		tag := fl.Field().String()
		if tag == "" {
			return true
		}
		_, err := language.Parse(tag)
		return err == nil
	})

	return v
}

func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err != nil {
		return err
	}
	return nil
}
