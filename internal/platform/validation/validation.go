// Package validation arma las instancias de go-playground/validator que usan el servidor y el cliente.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// TagRequest es el tag de las reglas que aplica el servidor.
const TagRequest = "validate"

// Request valida los cuerpos de request con los tags `validate`.
var Request = New(TagRequest, nil)

// New devuelve un validador que lee reglas de tagName, nombra los campos por su tag json
// y registra "notblank" (sólo-espacios cuenta como vacío) más las reglas extra.
func New(tagName string, rules map[string]validator.Func) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tagName)
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// Failures devuelve los campos rechazados, o nil si err no viene del validador.
func Failures(err error) validator.ValidationErrors {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
