package repository

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateStruct runs struct tag validation; failures are reported as constraint violations
// because they guard the same rules the schema's CHECK/NOT NULL clauses do.
func validateStruct(op string, v interface{}) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s: %w: invalid %s", op, ErrConstraintViolation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
}

// validateDate checks a YYYY-MM-DD calendar date.
func validateDate(op, date string) error {
	if err := validatorInstance().Var(date, "required,datetime=2006-01-02"); err != nil {
		return fmt.Errorf("%s: %w: service date %q is not YYYY-MM-DD", op, ErrConstraintViolation, date)
	}
	return nil
}
