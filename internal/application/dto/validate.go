package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/medical-farma-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Mensajes con el nombre JSON del campo (el que ve el cliente).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate aplica las etiquetas validate del DTO. Devuelve un error que envuelve domain.ErrInvalidInput.
func Validate(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es requerido"
	case "email":
		return fe.Field() + " debe ser un email válido"
	case "oneof":
		return fe.Field() + " debe ser uno de: " + fe.Param()
	case "min", "gte":
		return fe.Field() + " debe ser >= " + fe.Param()
	case "max", "lte":
		return fe.Field() + " debe ser <= " + fe.Param()
	case "eqfield":
		return fe.Field() + " debe coincidir con " + fe.Param()
	default:
		return fe.Field() + " inválido (" + fe.Tag() + ")"
	}
}
