// Package validation traduz as tags `validate` dos payloads em ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "hkinventory/internal/errors"
)

// Validator embrulha um *validator.Validate configurado para usar os nomes JSON dos campos.
type Validator struct {
	v *validator.Validate
}

// New cria o validador. É seguro para uso concorrente e deve ser compartilhado.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct valida o payload e devolve um ValidationError com a primeira falha.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.NewValidationError("Dados inválidos.")
	}
	return apperror.NewValidationError(message(verrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo '%s' é obrigatório.", field)
	case "gt":
		return fmt.Sprintf("O campo '%s' deve ser maior que %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("O campo '%s' deve ser maior ou igual a %s.", field, fe.Param())
	case "min":
		return fmt.Sprintf("O campo '%s' deve ter no mínimo %s caracteres.", field, fe.Param())
	case "max":
		return fmt.Sprintf("O campo '%s' deve ter no máximo %s caracteres.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("O campo '%s' deve ser um de: %s.", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("O campo '%s' deve ser um UUID válido.", field)
	case "email":
		return fmt.Sprintf("O campo '%s' deve ser um e-mail válido.", field)
	case "datetime":
		return fmt.Sprintf("O campo '%s' deve estar no formato AAAA-MM-DD.", field)
	case "url":
		return fmt.Sprintf("O campo '%s' deve ser uma URL válida.", field)
	}
	return fmt.Sprintf("O campo '%s' é inválido.", field)
}
