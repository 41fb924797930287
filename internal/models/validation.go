package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Cyberx9901/arch-repo-management/internal/repoerrors"
)

const (
	packageNameTagConstant              = "pkgname"
	packageVersionTagConstant           = "pkgversion"
	jsonTagNameConstant                 = "json"
	jsonTagSeparatorConstant            = ","
	jsonTagSkipConstant                 = "-"
	fieldErrorTemplateConstant          = "field '%s' failed the '%s' check (value: %v)"
	fieldErrorSeparatorConstant         = "; "
	validatorSetupErrorTemplateConstant = "unable to register validation %s: %v"
)

var packageNamePattern = regexp.MustCompile(`^[a-z0-9_@+][a-z0-9@._+-]*$`)

var modelValidator = newModelValidator()

func newModelValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get(jsonTagNameConstant), jsonTagSeparatorConstant, 2)[0]
		if name == jsonTagSkipConstant {
			return ""
		}
		return name
	})

	registrations := map[string]validator.Func{
		packageNameTagConstant: func(fieldLevel validator.FieldLevel) bool {
			return IsValidPackageName(fieldLevel.Field().String())
		},
		packageVersionTagConstant: func(fieldLevel validator.FieldLevel) bool {
			return Version(fieldLevel.Field().String()).IsValid()
		},
	}
	for tag, validationFunction := range registrations {
		if registrationError := instance.RegisterValidation(tag, validationFunction); registrationError != nil {
			panic(fmt.Sprintf(validatorSetupErrorTemplateConstant, tag, registrationError))
		}
	}

	return instance
}

// IsValidPackageName reports whether name is an acceptable package or pkgbase name.
func IsValidPackageName(name string) bool {
	return packageNamePattern.MatchString(name)
}

// Validate checks a model against its struct tags and reports failures as repoerrors.ErrValidation.
func Validate(model any) error {
	validationError := modelValidator.Struct(model)
	if validationError == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(validationError, &fieldErrors) {
		return repoerrors.New(repoerrors.ErrValidation, "", validationError)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, fmt.Sprintf(fieldErrorTemplateConstant, fieldError.Namespace(), fieldError.Tag(), fieldError.Value()))
	}

	return repoerrors.New(repoerrors.ErrValidation, "", errors.New(strings.Join(messages, fieldErrorSeparatorConstant)))
}
