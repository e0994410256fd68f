// Package inquiry accepts contact-form submissions. Inquiries are validated,
// given an ID and logged; nothing is stored.
package inquiry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
)

// ErrInvalidInquiry is wrapped by every validation failure.
var ErrInvalidInquiry = errors.New("invalid inquiry")

// Type is what the inquiry is about.
type Type string

const (
	General     Type = "general"
	Quote       Type = "quote"
	Technical   Type = "technical"
	Partnership Type = "partnership"
	Media       Type = "media"
	Other       Type = "other"
)

// Types lists the inquiry types in form order.
func Types() []Type {
	return []Type{General, Quote, Technical, Partnership, Media, Other}
}

// Inquiry is one contact-form submission. Selection is only considered for
// quote requests.
type Inquiry struct {
	Name        string             `json:"name"                validate:"required,max=200"`
	Email       string             `json:"email"               validate:"required,email,max=254"`
	Phone       string             `json:"phone,omitempty"     validate:"omitempty,max=40"`
	InquiryType Type               `json:"inquiryType"         validate:"required,oneof=general quote technical partnership media other"`
	Message     string             `json:"message"             validate:"required,max=5000"`
	Selection   *pricing.Selection `json:"selection,omitempty" validate:"-"`
}

// UnmarshalJSON seeds an attached selection with the calculator defaults, so
// a quote may carry only the fields the visitor changed.
func (i *Inquiry) UnmarshalJSON(data []byte) error {
	type plain Inquiry
	var aux struct {
		plain
		Selection json.RawMessage `json:"selection"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = Inquiry(aux.plain)
	i.Selection = nil
	if len(aux.Selection) == 0 || bytes.Equal(aux.Selection, []byte("null")) {
		return nil
	}
	sel := pricing.DefaultSelection()
	if err := json.Unmarshal(aux.Selection, &sel); err != nil {
		return fmt.Errorf("decoding selection: %w", err)
	}
	i.Selection = &sel
	return nil
}

// Receipt acknowledges an accepted inquiry.
type Receipt struct {
	ID          string              `json:"id"`
	InquiryType Type                `json:"inquiryType"`
	ReceivedAt  time.Time           `json:"receivedAt"`
	Estimate    *estimator.Estimate `json:"estimate,omitempty"`
}

// FieldError is one rejected field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists every rejected field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " (" + f.Rule + ")"
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInquiry, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInquiry }

// Intake validates and acknowledges inquiries. It is safe for concurrent use.
type Intake struct {
	validate *validator.Validate
	svc      *estimator.Service
	now      func() time.Time
}

// NewIntake returns an Intake that prices quote selections with svc.
func NewIntake(svc *estimator.Service) *Intake {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if svc == nil {
		svc = estimator.New()
	}
	return &Intake{validate: v, svc: svc, now: time.Now}
}

// Submit validates inq and returns a receipt with a fresh ULID. A quote
// inquiry carrying a Selection gets it priced; an invalid Selection rejects
// the inquiry.
func (in *Intake) Submit(ctx context.Context, inq Inquiry) (*Receipt, error) {
	log := logging.FromContext(ctx)
	inq = trimmed(inq)

	if err := in.validate.Struct(inq); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validating inquiry: %w", err)
		}
		out := &ValidationError{}
		for _, fe := range verrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return nil, out
	}

	receipt := &Receipt{
		ID:          ulid.Make().String(),
		InquiryType: inq.InquiryType,
		ReceivedAt:  in.now().UTC(),
	}

	if inq.InquiryType == Quote && inq.Selection != nil {
		est, err := in.svc.Estimate(ctx, inq.Selection.Canonical())
		if err != nil {
			return nil, &ValidationError{Fields: []FieldError{{Field: "selection", Rule: err.Error()}}}
		}
		receipt.Estimate = est
	}

	evt := log.Info().
		Ctx(ctx).
		Str("component", "inquiry").
		Str("inquiry_id", receipt.ID).
		Str("inquiry_type", string(inq.InquiryType)).
		Bool("has_phone", inq.Phone != "").
		Int("message_length", len(inq.Message))
	if receipt.Estimate != nil {
		evt = evt.Int64("quoted_total", receipt.Estimate.Result.TotalCost).
			Str("currency", receipt.Estimate.Result.Currency)
	}
	evt.Msg("inquiry received")

	return receipt, nil
}

func trimmed(inq Inquiry) Inquiry {
	inq.Name = strings.TrimSpace(inq.Name)
	inq.Email = strings.TrimSpace(inq.Email)
	inq.Phone = strings.TrimSpace(inq.Phone)
	inq.InquiryType = Type(strings.ToLower(strings.TrimSpace(string(inq.InquiryType))))
	inq.Message = strings.TrimSpace(inq.Message)
	return inq
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
