package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/inquiry"
	"github.com/combstruct/combstruct/internal/pricing"
)

func newTestServer(t *testing.T, opts ...estimator.Option) *Server {
	t.Helper()
	opts = append([]estimator.Option{estimator.WithEquivalencies(true)}, opts...)
	return New(Options{}, estimator.New(opts...), nil, zerolog.Nop())
}

func do(t *testing.T, s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestGetEstimate_Defaults(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/estimate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	est := decode[estimator.Estimate](t, rec)
	assert.Equal(t, "en", est.Result.Locale)
	assert.Equal(t, "USD", est.Result.Currency)
	assert.Equal(t, int64(97500), est.Result.TotalCost)
	assert.Equal(t, 46, est.Result.SavingsPercent)
	assert.Equal(t, int64(78750), est.Result.CO2SavedKg)
	assert.Equal(t, "$97,500", est.Display.TotalCost)
	require.NotNil(t, est.Equivalencies)
	assert.Len(t, est.Equivalencies.Results, 3)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
}

func TestGetEstimate_QueryParameters(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet,
		"/api/v1/estimate?floorAreaM2=200&storeys=2&locale=pl&finishingLevel=developer&selfBuild=false", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	est := decode[estimator.Estimate](t, rec)
	assert.Equal(t, "PLN", est.Result.Currency)
	assert.Equal(t, int64(546000), est.Result.TotalCost)
	assert.Equal(t, 5, est.Result.BuildWeeks)
	assert.Equal(t, 14, est.Result.TraditionalMonths)
}

func TestGetEstimate_AcceptLanguage(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "polish", header: "pl-PL,pl;q=0.9,en;q=0.5", want: "pl"},
		{name: "german", header: "de-AT", want: "de"},
		{name: "unsupported falls back", header: "ja-JP", want: "en"},
		{name: "missing header", header: "", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/v1/estimate", "", map[string]string{
				headerAcceptLanguage: tt.header,
			})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, decode[estimator.Estimate](t, rec).Result.Locale)
		})
	}
}

func TestGetEstimate_ExplicitLocaleBeatsHeader(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/estimate?locale=en", "", map[string]string{
		headerAcceptLanguage: "pl",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "en", decode[estimator.Estimate](t, rec).Result.Locale)
}

func TestGetEstimate_BadQueryType(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/estimate?floorAreaM2=lots", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Message, "invalid query parameters")
}

func TestPostEstimate(t *testing.T) {
	s := newTestServer(t)

	body := `{"buildingType":"multi-unit","floorAreaM2":100,"insulationGrade":"premium","finishingLevel":"shell","locale":"pl"}`
	rec := do(t, s, http.MethodPost, "/api/v1/estimate", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	est := decode[estimator.Estimate](t, rec)
	assert.Equal(t, "multiUnit", string(est.Selection.BuildingType))
	assert.Equal(t, 1, est.Selection.Storeys, "omitted fields keep defaults")
	assert.Equal(t, int64(52500), est.Result.CO2SavedKg)
}

func TestPostEstimate_StrictRejects(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "area too small", body: `{"floorAreaM2":10}`},
		{name: "too many storeys", body: `{"storeys":7}`},
		{name: "unknown building type", body: `{"buildingType":"castle"}`},
		{name: "unknown locale", body: `{"locale":"xx"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/v1/estimate", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestPostEstimate_LenientClamps(t *testing.T) {
	s := newTestServer(t, estimator.WithStrict(false))

	rec := do(t, s, http.MethodPost, "/api/v1/estimate", `{"floorAreaM2":10000}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	est := decode[estimator.Estimate](t, rec)
	assert.Equal(t, 500, est.Selection.FloorAreaM2)
	assert.NotEmpty(t, est.Warnings)
}

func TestPostEstimate_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/estimate", `{"floorAreaM2":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostEstimate_ValidatorRejectsOversizedFields(t *testing.T) {
	s := newTestServer(t)

	body := `{"locale":"` + strings.Repeat("x", 40) + `"}`
	rec := do(t, s, http.MethodPost, "/api/v1/estimate", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Message, "Locale")
}

func TestGetOptions(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/options", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[optionsResponse](t, rec)
	require.Len(t, resp.Dimensions, 3)
	assert.Equal(t, "buildingType", resp.Dimensions[0].Name)
	assert.Equal(t, rangeResponse{Min: 50, Max: 500}, resp.FloorAreaM2)
	assert.Equal(t, rangeResponse{Min: 1, Max: 3}, resp.Storeys)
	assert.Equal(t, 150, resp.Defaults.FloorAreaM2)
	assert.Equal(t, "en", resp.Defaults.Locale)
}

func TestGetLocales(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/locales", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "en", resp[0]["tag"])
	assert.Equal(t, true, resp[0]["default"])
	assert.Equal(t, "prefix", resp[0]["placement"])
	assert.Equal(t, "pl", resp[1]["tag"])
	assert.Equal(t, false, resp[1]["default"])
	assert.Equal(t, "suffix", resp[1]["placement"])
}

func TestPostInquiry(t *testing.T) {
	s := newTestServer(t)

	body := `{"name":"Ada","email":"ada@example.com","inquiryType":"quote","message":"Hello",
		"selection":{"buildingType":"singleFamily","floorAreaM2":150,"storeys":1,
		"insulationGrade":"standard","finishingLevel":"developer","locale":"en"}}`
	rec := do(t, s, http.MethodPost, "/api/v1/inquiries", body, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	receipt := decode[inquiry.Receipt](t, rec)
	assert.Len(t, receipt.ID, 26)
	assert.Equal(t, inquiry.Quote, receipt.InquiryType)
	require.NotNil(t, receipt.Estimate)
	assert.Equal(t, int64(97500), receipt.Estimate.Result.TotalCost)
}

func TestPostInquiry_PartialSelection(t *testing.T) {
	s := newTestServer(t)

	body := `{"name":"Ada","email":"ada@example.com","inquiryType":"quote","message":"Hello",
		"selection":{"buildingType":"multi-unit","floorAreaM2":200}}`
	rec := do(t, s, http.MethodPost, "/api/v1/inquiries", body, nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	receipt := decode[inquiry.Receipt](t, rec)
	require.NotNil(t, receipt.Estimate)
	assert.Equal(t, pricing.MultiUnit, receipt.Estimate.Selection.BuildingType)
	assert.Equal(t, 200, receipt.Estimate.Selection.FloorAreaM2)
}

func TestPostInquiry_ValidationFields(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/inquiries", `{"name":"","email":"nope","inquiryType":"general","message":"x"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Fields, inquiry.FieldError{Field: "name", Rule: "required"})
	assert.Contains(t, resp.Fields, inquiry.FieldError{Field: "email", Rule: "email"})
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[healthResponse](t, rec).Status)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/nothing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, decode[ErrorResponse](t, rec).Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	t.Run("generated", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/healthz", "", nil)
		assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 26)
	})

	t.Run("propagated", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/healthz", "", map[string]string{echo.HeaderXRequestID: "abc-123"})
		assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestCORS(t *testing.T) {
	svc := estimator.New()
	s := New(Options{AllowedOrigins: []string{"https://combstruct.example"}}, svc, nil, zerolog.Nop())

	rec := do(t, s, http.MethodGet, "/healthz", "", map[string]string{echo.HeaderOrigin: "https://combstruct.example"})
	assert.Equal(t, "https://combstruct.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = do(t, s, http.MethodGet, "/healthz", "", map[string]string{echo.HeaderOrigin: "https://elsewhere.example"})
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	rec = do(t, s, http.MethodOptions, "/api/v1/estimate", "", map[string]string{
		echo.HeaderOrigin:                     "https://combstruct.example",
		echo.HeaderAccessControlRequestMethod: http.MethodPost,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), headerAcceptLanguage)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
