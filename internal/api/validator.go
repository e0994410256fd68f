package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// structValidator adapts validator/v10 to echo.Validator.
type structValidator struct {
	v *validator.Validate
}

func newValidator() echo.Validator {
	return &structValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (sv *structValidator) Validate(i interface{}) error {
	return sv.v.Struct(i)
}
