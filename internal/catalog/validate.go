package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput проверяет входную структуру до любого обращения к хранилищу.
func validateInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError(KindValidation, op, err.Error(), err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return NewError(KindValidation, op, strings.Join(msgs, "; "), err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", field, fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("field '%s' must be %s %s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("field '%s' failed '%s'", field, fe.Tag())
	}
}

// trimRoot нормализует пробелы: "  Mailer " и "Mailer" считаются одним именем.
func trimRoot(in RootInput) RootInput {
	in.Name = strings.TrimSpace(in.Name)
	return in
}

func trimMid(in MidInput) MidInput {
	in.Name = strings.TrimSpace(in.Name)
	for i := range in.Parameters {
		in.Parameters[i].Name = strings.TrimSpace(in.Parameters[i].Name)
		in.Parameters[i].Type = strings.TrimSpace(in.Parameters[i].Type)
	}
	return in
}
