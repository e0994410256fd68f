package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/inquiry"
	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/logging"
)

// CodedError carries the HTTP status a handler wants for err.
type CodedError struct {
	code int
	err  error
}

// NewCodedError wraps err with an HTTP status.
func NewCodedError(code int, err error) *CodedError {
	return &CodedError{code: code, err: err}
}

func (e *CodedError) Error() string { return e.err.Error() }
func (e *CodedError) Unwrap() error { return e.err }

// Code returns the HTTP status.
func (e *CodedError) Code() int { return e.code }

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Message string               `json:"message"`
	Code    int                  `json:"code"`
	Fields  []inquiry.FieldError `json:"fields,omitempty"`
}

// statusFor picks the HTTP status for err: an explicit CodedError wins, then
// echo's own errors, then known domain errors; anything else is a 500.
func statusFor(err error) (int, string) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code(), err.Error()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok {
			msg = s
		}
		return he.Code, msg
	}

	switch {
	case errors.Is(err, estimator.ErrInvalidSelection),
		errors.Is(err, inquiry.ErrInvalidInquiry),
		errors.Is(err, locale.ErrUnknownLocale):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := statusFor(err)
	resp := ErrorResponse{Message: msg, Code: code}

	var verr *inquiry.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}

	ctx := c.Request().Context()
	if code >= http.StatusInternalServerError {
		logging.FromContext(ctx).Error().Ctx(ctx).Str("component", "api").Err(err).Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, resp)
}
