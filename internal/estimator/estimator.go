// Package estimator is the service layer around the pricing engine. It
// resolves the locale, enforces or relaxes the Selection contract, runs the
// computation and prepares display strings for every front end.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/combstruct/combstruct/internal/greenops"
	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/logging"
	"github.com/combstruct/combstruct/internal/pricing"
)

// ErrInvalidSelection wraps every contract violation rejected in strict mode.
var ErrInvalidSelection = errors.New("invalid selection")

// Disclaimer is shown under every estimate.
const Disclaimer = "This is an indicative estimate only. The final price depends on a site survey and detailed design."

// Service computes estimates. It is safe for concurrent use.
type Service struct {
	table         pricing.Table
	locales       *locale.Registry
	strict        bool
	equivalencies bool
}

// Option configures a Service.
type Option func(*Service)

// WithTable replaces the default price list.
func WithTable(t pricing.Table) Option {
	return func(s *Service) { s.table = t }
}

// WithLocales replaces the default locale registry.
func WithLocales(r *locale.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.locales = r
		}
	}
}

// WithStrict selects strict (reject) or lenient (clamp and warn) handling of
// contract violations. Strict is the default.
func WithStrict(strict bool) Option {
	return func(s *Service) { s.strict = strict }
}

// WithEquivalencies toggles CO2 equivalencies in the Estimate.
func WithEquivalencies(on bool) Option {
	return func(s *Service) { s.equivalencies = on }
}

// New returns a strict Service over the default table and locales.
func New(opts ...Option) *Service {
	s := &Service{
		table:   pricing.DefaultTable(),
		locales: locale.Default(),
		strict:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the price list in use.
func (s *Service) Table() pricing.Table { return s.table }

// Locales returns the locale registry in use.
func (s *Service) Locales() *locale.Registry { return s.locales }

// Strict reports whether contract violations are rejected.
func (s *Service) Strict() bool { return s.strict }

// Estimate is a computed result together with everything needed to show it.
type Estimate struct {
	Selection     pricing.Selection `json:"selection"`
	Result        pricing.Result    `json:"result"`
	Display       Display           `json:"display"`
	Equivalencies *greenops.Output  `json:"equivalencies,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`

	profile locale.Profile
}

// Profile returns the locale profile the estimate was formatted for.
func (e *Estimate) Profile() locale.Profile { return e.profile }

// Estimate prices sel. In strict mode a contract violation or unknown locale
// returns an error wrapping ErrInvalidSelection. In lenient mode the
// Selection is clamped, unknown values fall back to neutral ones and the
// adjustments are reported in Estimate.Warnings.
func (s *Service) Estimate(ctx context.Context, sel pricing.Selection) (*Estimate, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	profile, warnings, err := s.resolveLocale(sel.Locale)
	if err != nil {
		log.Debug().Ctx(ctx).Str("component", "estimator").Err(err).Msg("locale rejected")
		return nil, err
	}
	sel.Locale = profile.Tag

	if verr := sel.Validate(); verr != nil {
		if s.strict {
			log.Debug().Ctx(ctx).Str("component", "estimator").Err(verr).Msg("selection rejected")
			return nil, fmt.Errorf("%w: %w", ErrInvalidSelection, verr)
		}
		var adjusted []string
		sel, adjusted = relax(sel)
		warnings = append(warnings, adjusted...)
		log.Warn().
			Ctx(ctx).
			Str("component", "estimator").
			Err(verr).
			Strs("adjustments", adjusted).
			Msg("selection outside contract, estimating with adjusted values")
	}

	result := pricing.Compute(s.table, sel, profile.Conversion())

	est := &Estimate{
		Selection: sel,
		Result:    result,
		Display:   NewDisplay(profile, result),
		Warnings:  warnings,
		profile:   profile,
	}
	if s.equivalencies {
		out := greenops.CalculateOrEmpty(ctx, float64(result.CO2SavedKg))
		if !out.IsEmpty {
			est.Equivalencies = &out
		}
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "estimator").
		Str("building_type", string(sel.BuildingType)).
		Int("floor_area_m2", sel.FloorAreaM2).
		Int("storeys", sel.Storeys).
		Str("locale", profile.Tag).
		Int64("total_cost", result.TotalCost).
		Str("currency", result.Currency).
		Dur("duration", time.Since(start)).
		Msg("estimate computed")

	return est, nil
}

func (s *Service) resolveLocale(tag string) (locale.Profile, []string, error) {
	if tag == "" {
		return s.locales.DefaultProfile(), nil, nil
	}
	p, err := s.locales.Lookup(tag)
	if err == nil {
		return p, nil, nil
	}
	if s.strict {
		return locale.Profile{}, nil, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}
	def := s.locales.DefaultProfile()
	return def, []string{fmt.Sprintf("locale %q is not supported, using %q", tag, def.Tag)}, nil
}

// relax clamps numeric fields and swaps unknown enum values for the neutral
// ones, returning a note per change.
func relax(sel pricing.Selection) (pricing.Selection, []string) {
	var notes []string
	out := sel.Normalize()
	if out.FloorAreaM2 != sel.FloorAreaM2 {
		notes = append(notes, fmt.Sprintf("floor area %d clamped to %d", sel.FloorAreaM2, out.FloorAreaM2))
	}
	if out.Storeys != sel.Storeys {
		notes = append(notes, fmt.Sprintf("storeys %d clamped to %d", sel.Storeys, out.Storeys))
	}
	if !out.BuildingType.Valid() {
		notes = append(notes, fmt.Sprintf("building type %q replaced by %q", out.BuildingType, pricing.SingleFamily))
		out.BuildingType = pricing.SingleFamily
	}
	if !out.InsulationGrade.Valid() {
		notes = append(notes, fmt.Sprintf("insulation grade %q replaced by %q", out.InsulationGrade, pricing.Standard))
		out.InsulationGrade = pricing.Standard
	}
	if !out.FinishingLevel.Valid() {
		notes = append(notes, fmt.Sprintf("finishing level %q replaced by %q", out.FinishingLevel, pricing.Developer))
		out.FinishingLevel = pricing.Developer
	}
	return out, notes
}
