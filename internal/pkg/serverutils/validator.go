package serverutils

import (
	"fmt"
	"strings"

	"github.com/momonga11/notenext-server/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and collects every failing
// field into a single validation error, so clients see all problems at once.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return apperror.NewValidation(messages...)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s can't be blank", field)
	case "email":
		return fmt.Sprintf("%s is invalid", field)
	case "max":
		return fmt.Sprintf("%s is too long (maximum is %s characters)", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s is too short (minimum is %s characters)", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
