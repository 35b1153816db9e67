package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	apperrors "github.com/eskildht/inginious/internal/errors"
	"github.com/eskildht/inginious/internal/problems"
)

// Validator wraps go-playground/validator with translated error messages
// for request DTOs.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names in error messages instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidators(validate)

	return &Validator{validate: validate, translator: translator}
}

// Validate checks s and converts failures into the shared
// ValidationErrors type with translated messages.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var errs apperrors.ValidationErrors
	for _, fe := range fieldErrors {
		errs = append(errs, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return errs
}

// ValidateIdentifier is the "identifier" tag: the restricted charset used
// for course, task, problem and box ids.
func ValidateIdentifier(fl validator.FieldLevel) bool {
	return problems.ValidIdentifier(fl.Field().String())
}

func registerCustomValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("identifier", ValidateIdentifier)
}
