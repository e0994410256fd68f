package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/combstruct/combstruct/internal/inquiry"
	"github.com/combstruct/combstruct/internal/locale"
	"github.com/combstruct/combstruct/internal/pricing"
	"github.com/combstruct/combstruct/pkg/version"
)

// estimateRequest is the wire form of a Selection. Enum fields are strings so
// that kebab and snake spellings are accepted.
type estimateRequest struct {
	BuildingType    string `json:"buildingType"    validate:"max=32"`
	FloorAreaM2     int    `json:"floorAreaM2"`
	Storeys         int    `json:"storeys"`
	InsulationGrade string `json:"insulationGrade" validate:"max=32"`
	SelfBuild       bool   `json:"selfBuild"`
	FinishingLevel  string `json:"finishingLevel"  validate:"max=32"`
	Locale          string `json:"locale"          validate:"max=35"`
}

func defaultRequest() estimateRequest {
	d := pricing.DefaultSelection()
	return estimateRequest{
		BuildingType:    string(d.BuildingType),
		FloorAreaM2:     d.FloorAreaM2,
		Storeys:         d.Storeys,
		InsulationGrade: string(d.InsulationGrade),
		SelfBuild:       d.SelfBuild,
		FinishingLevel:  string(d.FinishingLevel),
	}
}

// selection converts the request. Unrecognised enum spellings are passed
// through unchanged so the estimator reports them.
func (r estimateRequest) selection() pricing.Selection {
	return pricing.Selection{
		BuildingType:    pricing.BuildingType(r.BuildingType),
		FloorAreaM2:     r.FloorAreaM2,
		Storeys:         r.Storeys,
		InsulationGrade: pricing.InsulationGrade(r.InsulationGrade),
		SelfBuild:       r.SelfBuild,
		FinishingLevel:  pricing.FinishingLevel(r.FinishingLevel),
		Locale:          r.Locale,
	}.Canonical()
}

func (s *Server) getEstimate(c echo.Context) error {
	req := defaultRequest()
	err := echo.QueryParamsBinder(c).
		String("buildingType", &req.BuildingType).
		Int("floorAreaM2", &req.FloorAreaM2).
		Int("storeys", &req.Storeys).
		String("insulationGrade", &req.InsulationGrade).
		Bool("selfBuild", &req.SelfBuild).
		String("finishingLevel", &req.FinishingLevel).
		String("locale", &req.Locale).
		BindError()
	if err != nil {
		return NewCodedError(http.StatusBadRequest, fmt.Errorf("invalid query parameters: %w", err))
	}
	return s.estimate(c, req)
}

func (s *Server) postEstimate(c echo.Context) error {
	req := defaultRequest()
	if err := c.Bind(&req); err != nil {
		return NewCodedError(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}
	return s.estimate(c, req)
}

func (s *Server) estimate(c echo.Context, req estimateRequest) error {
	if err := c.Validate(&req); err != nil {
		return NewCodedError(http.StatusBadRequest, describeValidation(err))
	}
	if req.Locale == "" {
		req.Locale = s.locales.Match(c.Request().Header.Get(headerAcceptLanguage)).Tag
	}

	est, err := s.svc.Estimate(c.Request().Context(), req.selection())
	if err != nil {
		return err
	}
	c.Response().Header().Set("Content-Language", est.Result.Locale)
	return c.JSON(http.StatusOK, est)
}

type rangeResponse struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type optionsResponse struct {
	Dimensions  []pricing.Dimension `json:"dimensions"`
	FloorAreaM2 rangeResponse       `json:"floorAreaM2"`
	Storeys     rangeResponse       `json:"storeys"`
	Defaults    pricing.Selection   `json:"defaults"`
}

func (s *Server) getOptions(c echo.Context) error {
	defaults := pricing.DefaultSelection()
	defaults.Locale = s.locales.DefaultProfile().Tag
	return c.JSON(http.StatusOK, optionsResponse{
		Dimensions:  s.svc.Table().Dimensions(),
		FloorAreaM2: rangeResponse{Min: pricing.MinFloorAreaM2, Max: pricing.MaxFloorAreaM2},
		Storeys:     rangeResponse{Min: pricing.MinStoreys, Max: pricing.MaxStoreys},
		Defaults:    defaults,
	})
}

type localeResponse struct {
	locale.Profile
	Default bool `json:"default"`
}

func (s *Server) getLocales(c echo.Context) error {
	def := s.locales.DefaultProfile().Tag
	profiles := s.locales.Profiles()
	out := make([]localeResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, localeResponse{Profile: p, Default: p.Tag == def})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) postInquiry(c echo.Context) error {
	var inq inquiry.Inquiry
	if err := c.Bind(&inq); err != nil {
		return NewCodedError(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}

	receipt, err := s.intake.Submit(c.Request().Context(), inq)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, receipt)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) getHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Version: version.GetVersion()})
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return fmt.Errorf("field %s failed %s validation", fe.Field(), fe.Tag())
}
