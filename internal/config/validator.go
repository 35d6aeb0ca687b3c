package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/bashhack/tltp/internal/errs"
)

// ErrTranslatorNotFound indicates the English translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// Validator checks a Config and reports problems by flag name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator constructs a Validator with English messages.
func NewValidator() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("flag"); name != "" {
			return name
		}
		return strings.ToLower(f.Name)
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	err := validate.RegisterTranslation("excluded_with", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("excluded_with", "{0} cannot be combined with --{1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field(), strings.ToLower(fe.Param()))
			if err != nil {
				return fe.(error).Error()
			}
			return t
		},
	)
	if err != nil {
		return nil, err
	}

	return &Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate returns nil or one ConfigError per invalid field, joined.
func (v *Validator) Validate(cfg Config) error {
	err := v.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return &errs.ConfigError{Message: "invalid configuration", Err: err}
	}

	list := make([]error, 0, len(validateErrs))
	for _, fe := range validateErrs {
		msg := strings.TrimPrefix(fe.Translate(v.translator), fe.Field()+" ")
		list = append(list, errs.Config(fe.Field(), msg))
	}
	return errors.Join(list...)
}
