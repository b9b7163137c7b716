package utils

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phoneRegex      = regexp.MustCompile(`^\+?[0-9 .\-()]{6,20}$`)
	personNameRegex = regexp.MustCompile(`^\p{L}[\p{L} '\-]{0,99}$`)
)

// IsValidPhone accepte les formats usuels : +33 6 12 34 56 78, 06.12.34.56.78, (514) 555-0100.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(strings.TrimSpace(phone))
}

// IsValidPersonName n'accepte que lettres, espaces, apostrophes et traits d'union.
func IsValidPersonName(name string) bool {
	return personNameRegex.MatchString(strings.TrimSpace(name))
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func validatePersonName(fl validator.FieldLevel) bool {
	return IsValidPersonName(fl.Field().String())
}

// RegisterValidators ajoute les balises "phone" et "personname" au validateur de gin.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return err
	}
	return v.RegisterValidation("personname", validatePersonName)
}
