package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/locale"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "coded", err: NewCodedError(http.StatusTeapot, errors.New("tea")), want: http.StatusTeapot},
		{name: "wrapped coded", err: fmt.Errorf("outer: %w", NewCodedError(http.StatusConflict, errors.New("x"))), want: http.StatusConflict},
		{name: "echo error", err: echo.ErrNotFound, want: http.StatusNotFound},
		{name: "invalid selection", err: fmt.Errorf("%w: area", estimator.ErrInvalidSelection), want: http.StatusBadRequest},
		{name: "unknown locale", err: locale.ErrUnknownLocale, want: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusFor_HidesInternalMessage(t *testing.T) {
	_, msg := statusFor(errors.New("database password is hunter2"))
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), msg)
}
