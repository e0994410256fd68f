package cli_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combstruct/combstruct/internal/cli"
	"github.com/combstruct/combstruct/internal/config"
	"github.com/combstruct/combstruct/internal/estimator"
	"github.com/combstruct/combstruct/internal/pricing"
)

var plainSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

func TestNewEstimateCmd_Flags(t *testing.T) {
	cmd := cli.NewEstimateCmd()

	tests := []struct {
		flag   string
		defVal string
	}{
		{"building-type", "singleFamily"},
		{"area", "150"},
		{"storeys", "1"},
		{"insulation", "standard"},
		{"self-build", "false"},
		{"finishing", "developer"},
		{"locale", ""},
		{"output", ""},
		{"equivalencies", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := cmd.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.defVal, f.DefValue)
		})
	}
}

func TestBuildSelection(t *testing.T) {
	tests := []struct {
		name   string
		params cli.EstimateParams
		want   pricing.Selection
	}{
		{
			name: "kebab and upper case",
			params: cli.EstimateParams{
				BuildingType: "multi-unit", Area: 200, Storeys: 2,
				Insulation: "ECO", Finishing: "turnkey", Locale: "pl", SelfBuild: true,
			},
			want: pricing.Selection{
				BuildingType: pricing.MultiUnit, FloorAreaM2: 200, Storeys: 2,
				InsulationGrade: pricing.Eco, FinishingLevel: pricing.Turnkey, Locale: "pl", SelfBuild: true,
			},
		},
		{
			name:   "unknown values kept as typed",
			params: cli.EstimateParams{BuildingType: "castle", Area: 100, Storeys: 1, Insulation: "straw", Finishing: "gold"},
			want: pricing.Selection{
				BuildingType: "castle", FloorAreaM2: 100, Storeys: 1,
				InsulationGrade: "straw", FinishingLevel: "gold",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.BuildSelection(tt.params))
		})
	}
}

func TestEstimate_DefaultTable(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "estimate")
	require.NoError(t, err)

	for _, want := range []string{
		"Modular Build Estimate",
		"Single-family house",
		"150 m² over 1 storey",
		"$650 / m²",
		"$97,500",
		"$180,000",
		"$82,500 (46%)",
		"3 weeks (traditional: 10 months)",
		"78,750 kg",
		estimator.Disclaimer,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Equivalent to")
}

func TestEstimate_JSON(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "estimate", "--area", "200", "--storeys", "2", "--output", "json", "--equivalencies")
	require.NoError(t, err)

	var got struct {
		Result        pricing.Result `json:"result"`
		Equivalencies *struct {
			DisplayText string `json:"display_text"`
		} `json:"equivalencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, int64(136500), got.Result.TotalCost)
	assert.Equal(t, 5, got.Result.BuildWeeks)
	assert.Equal(t, 14, got.Result.TraditionalMonths)
	require.NotNil(t, got.Equivalencies)
	assert.Contains(t, got.Equivalencies.DisplayText, "tree seedlings")
}

func TestEstimate_NDJSON(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "estimate", "--output", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, json.Valid([]byte(lines[0])))
}

func TestEstimate_Polish(t *testing.T) {
	setupCLITest(t)

	out, err := executeCmd(t, "estimate", "--locale", "pl")
	require.NoError(t, err)

	out = plainSpaces.Replace(out)
	assert.Contains(t, out, "390 000 zł")
	assert.Contains(t, out, "PLN")
}

func TestEstimate_StrictRejectsOutOfRange(t *testing.T) {
	setupCLITest(t)

	_, err := executeCmd(t, "estimate", "--area", "10")
	require.Error(t, err)
	assert.ErrorIs(t, err, estimator.ErrInvalidSelection)
	assert.ErrorIs(t, err, pricing.ErrFloorAreaOutOfRange)
}

func TestEstimate_LenientViaOverlay(t *testing.T) {
	home := setupCLITest(t)
	overlay := writeFile(t, home, "lenient.yaml", "estimator:\n  strict: false\n")

	out, err := executeCmd(t, "--config", overlay, "estimate", "--area", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Adjusted input:")
	assert.Contains(t, out, "50 m²")
}

func TestEstimate_LenientNeutralizesUnknownEnums(t *testing.T) {
	setupCLITest(t)
	t.Setenv(config.EnvStrict, "false")

	out, err := executeCmd(t, "estimate", "--building-type", "villa", "--output", "json")
	require.NoError(t, err)

	var got estimator.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, pricing.SingleFamily, got.Selection.BuildingType)
	assert.Equal(t, int64(97500), got.Result.TotalCost)
	require.NotEmpty(t, got.Warnings)
	assert.Contains(t, strings.Join(got.Warnings, "\n"), "villa")
}

func TestEstimate_DefaultFormatFromConfig(t *testing.T) {
	home := setupCLITest(t)
	overlay := writeFile(t, home, "json.yaml", "output:\n  default_format: json\n  default_locale: de\n")

	out, err := executeCmd(t, "--config", overlay, "estimate")
	require.NoError(t, err)

	var got estimator.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "de", got.Result.Locale)
}

func TestEstimate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "bad output", args: []string{"estimate", "--output", "xml"}, wantErr: "unsupported output format"},
		{name: "bad building type", args: []string{"estimate", "--building-type", "igloo"}, wantErr: "unknown building type"},
		{name: "unknown locale", args: []string{"estimate", "--locale", "fr"}, wantErr: "unknown locale"},
		{name: "missing overlay", args: []string{"--config", "/nonexistent/overlay.yaml", "estimate"}, wantErr: "--config overlay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLITest(t)
			_, err := executeCmd(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
