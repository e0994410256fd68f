// Package locale maps locale tags to a display currency, a fixed conversion
// rate from the reference currency and the number-format conventions of the
// language. It also negotiates a locale from an Accept-Language header.
package locale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"

	"github.com/combstruct/combstruct/internal/pricing"
)

// ErrUnknownLocale is returned for a tag that is not registered.
var ErrUnknownLocale = errors.New("unknown locale")

// Placement says on which side of the number a currency symbol goes.
type Placement int

const (
	Prefix Placement = iota
	Suffix
)

// String returns "prefix" or "suffix".
func (p Placement) String() string {
	if p == Suffix {
		return "suffix"
	}
	return "prefix"
}

// MarshalText implements encoding.TextMarshaler.
func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Profile is everything needed to present an estimate in one locale.
type Profile struct {
	Tag       string    `json:"tag"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Symbol    string    `json:"symbol"`
	Placement Placement `json:"placement"`
	Rate      float64   `json:"rate"`

	lang    language.Tag
	printer *message.Printer
	// minGrouping is the CLDR minimumGroupingDigits: numbers with fewer
	// than 3+minGrouping integer digits are written without separators.
	minGrouping int
}

// NewProfile builds a profile for tag. Numbers are grouped the way the
// language writes them.
func NewProfile(tag, currency, symbol string, placement Placement, rate float64) (Profile, error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return Profile{}, fmt.Errorf("parsing locale tag %q: %w", tag, err)
	}
	if rate <= 0 {
		return Profile{}, fmt.Errorf("locale %q: conversion rate must be positive, got %v", tag, rate)
	}
	return Profile{
		Tag:       lang.String(),
		Name:      display.Self.Name(lang),
		Currency:  currency,
		Symbol:    symbol,
		Placement: placement,
		Rate:      rate,
		lang:        lang,
		printer:     message.NewPrinter(lang),
		minGrouping: minGroupingDigits(lang),
	}, nil
}

// minGroupingDigits returns the CLDR minimumGroupingDigits for lang.
// x/text groups every number of four or more digits regardless.
func minGroupingDigits(lang language.Tag) int {
	base, _ := lang.Base()
	switch base.String() {
	case "pl", "es":
		return 2
	default:
		return 1
	}
}

// Conversion returns the engine conversion for this profile.
func (p Profile) Conversion() pricing.Conversion {
	return pricing.Conversion{Currency: p.Currency, Rate: p.Rate}
}

// Language returns the parsed language tag.
func (p Profile) Language() language.Tag {
	return p.lang
}

// FormatNumber groups digits per the profile's language, e.g. "97,500" in
// English and "97.500" in German. Polish leaves four-digit numbers ungrouped
// ("2600").
func (p Profile) FormatNumber(n int64) string {
	if p.printer == nil {
		return message.NewPrinter(language.English).Sprintf("%d", n)
	}
	if p.minGrouping > 1 && abs(n) < pow10(3+p.minGrouping) {
		return strconv.FormatInt(n, 10)
	}
	return p.printer.Sprintf("%d", n)
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func pow10(e int) int64 {
	v := int64(1)
	for range e {
		v *= 10
	}
	return v
}

// FormatMoney formats an amount in the profile's currency, e.g. "$97,500"
// or "390 000 zł".
func (p Profile) FormatMoney(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	num := p.FormatNumber(n)
	if p.Placement == Suffix {
		return sign + num + " " + p.Symbol
	}
	return sign + p.Symbol + num
}

// Registry is an immutable set of locale profiles with a default.
type Registry struct {
	profiles []Profile
	def      int
	matcher  language.Matcher
	// order maps matcher indexes back to profiles.
	order []int
}

// NewRegistry builds a registry. defaultTag must name one of the profiles.
func NewRegistry(defaultTag string, profiles ...Profile) (*Registry, error) {
	if len(profiles) == 0 {
		return nil, errors.New("locale registry needs at least one profile")
	}

	def := -1
	seen := make(map[string]bool, len(profiles))
	for i, p := range profiles {
		if seen[p.Tag] {
			return nil, fmt.Errorf("duplicate locale %q", p.Tag)
		}
		seen[p.Tag] = true
		if strings.EqualFold(p.Tag, defaultTag) {
			def = i
		}
	}
	if def < 0 {
		return nil, fmt.Errorf("%w: default %q is not registered", ErrUnknownLocale, defaultTag)
	}

	// The matcher falls back to its first tag, so the default goes first.
	tags := []language.Tag{profiles[def].lang}
	order := []int{def}
	for i, p := range profiles {
		if i != def {
			tags = append(tags, p.lang)
			order = append(order, i)
		}
	}

	return &Registry{
		profiles: append([]Profile(nil), profiles...),
		def:      def,
		matcher:  language.NewMatcher(tags),
		order:    order,
	}, nil
}

// DefaultTag is the locale used when nothing else matches.
const DefaultTag = "en"

// Default returns the site's registry: en (USD), pl and de (PLN).
func Default() *Registry {
	return defaultRegistry
}

//nolint:gochecknoglobals // Immutable, built once.
var defaultRegistry = mustDefault()

func mustDefault() *Registry {
	en, err := NewProfile("en", "USD", "$", Prefix, 0.25)
	if err != nil {
		panic(err)
	}
	pl, err := NewProfile("pl", "PLN", "zł", Suffix, 1)
	if err != nil {
		panic(err)
	}
	de, err := NewProfile("de", "PLN", "zł", Suffix, 1)
	if err != nil {
		panic(err)
	}
	r, err := NewRegistry(DefaultTag, en, pl, de)
	if err != nil {
		panic(err)
	}
	return r
}

// Profiles returns the registered profiles in registration order.
func (r *Registry) Profiles() []Profile {
	return append([]Profile(nil), r.profiles...)
}

// DefaultProfile returns the default locale's profile.
func (r *Registry) DefaultProfile() Profile {
	return r.profiles[r.def]
}

// Tags returns the registered tags.
func (r *Registry) Tags() []string {
	tags := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		tags[i] = p.Tag
	}
	return tags
}

// Lookup finds the profile for tag. Case is ignored and region subtags are
// dropped, so "EN" and "en-GB" both resolve to "en".
func (r *Registry) Lookup(tag string) (Profile, error) {
	lang, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownLocale, tag)
	}
	base, _ := lang.Base()
	for _, p := range r.profiles {
		if pb, _ := p.lang.Base(); pb == base {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownLocale, tag)
}

// Resolve is Lookup with a fallback to the default profile. An empty tag
// yields the default.
func (r *Registry) Resolve(tag string) Profile {
	if tag == "" {
		return r.DefaultProfile()
	}
	p, err := r.Lookup(tag)
	if err != nil {
		return r.DefaultProfile()
	}
	return p
}

// Match negotiates a profile from an Accept-Language header value. Malformed
// or unmatched headers yield the default profile.
func (r *Registry) Match(acceptLanguage string) Profile {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return r.DefaultProfile()
	}
	_, idx, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.DefaultProfile()
	}
	return r.profiles[r.order[idx]]
}
