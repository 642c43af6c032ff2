package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired = "Este campo es requerido"
	msgEmail    = "Formato de correo inválido"
	msgNumber   = "Debe ser un número"
	msgInteger  = "Debe ser un número entero"
	msgBoolean  = "Valor inválido"
	msgInvalid  = "Formato inválido"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check validates draft and merges the failures into errs. Fields that
// already failed coercion keep their first message.
func check(draft any, errs FieldErrors) {
	err := validate.Struct(draft)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.add("_", err.Error())
		return
	}
	for _, fe := range verrs {
		errs.add(fe.Field(), message(fe))
	}
}

// checkVar validates a single value against tag.
func checkVar(field string, value any, tag string, errs FieldErrors) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		errs.add(field, message(verrs[0]))
		return
	}
	errs.add(field, msgInvalid)
}

func message(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "required_with":
		return msgRequired
	case "email":
		return msgEmail
	case "min":
		if isText {
			return fmt.Sprintf("Mínimo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("El valor mínimo es %s", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("Máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("El valor máximo es %s", fe.Param())
	case "len":
		return fmt.Sprintf("Debe tener %s dígitos", fe.Param())
	case "numeric":
		return "Solo se permiten dígitos"
	default:
		return msgInvalid
	}
}
