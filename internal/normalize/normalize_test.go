package normalize

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pragati/internal/backend"
	"pragati/internal/registry"
)

func TestGenericSuccess(t *testing.T) {
	result := Generic(&backend.GenericResponse{Success: true, Response: "Wheat grows well in loamy soil."})
	assert.Equal(t, "Wheat grows well in loamy soil.", result.Content)
	assert.Equal(t, true, result.Metadata["success"])
}

func TestGenericFailureWithoutError(t *testing.T) {
	// A failed response with no error string must still produce content.
	result := Generic(&backend.GenericResponse{Success: false})
	assert.Equal(t, "Error: Unknown error occurred", result.Content)
}

func TestGenericFailureWithError(t *testing.T) {
	result := Generic(&backend.GenericResponse{Success: false, Error: "model overloaded"})
	assert.Equal(t, "Error: model overloaded", result.Content)
}

func TestCropRecommendationsRendersAlignedArrays(t *testing.T) {
	resp := &backend.CropRecommendationResponse{
		Success:          true,
		CropNames:        []string{"Rice", "Maize"},
		ConfidenceScores: []float64{0.925, 0.61},
		Justifications:   []string{"High rainfall suits paddy.", "Tolerates sandy soil."},
	}
	result := CropRecommendations(resp)

	assert.Contains(t, result.Content, "**1. Rice** — 92.5% confidence")
	assert.Contains(t, result.Content, "High rainfall suits paddy.")
	assert.Contains(t, result.Content, "**2. Maize** — 61.0% confidence")
	assert.Equal(t, resp.CropNames, result.Metadata["crop_names"])
}

func TestCropRecommendationsEmptyArraysHeaderOnly(t *testing.T) {
	result := CropRecommendations(&backend.CropRecommendationResponse{Success: true})
	assert.Equal(t, "Based on your soil and climate conditions, here are my crop recommendations:\n", result.Content)
}

func TestCropRecommendationsShortConfidenceArrayDegrades(t *testing.T) {
	resp := &backend.CropRecommendationResponse{
		Success:   true,
		CropNames: []string{"Rice", "Maize"},
		// Only one score for two crops; the second entry renders without one.
		ConfidenceScores: []float64{0.9},
	}
	result := CropRecommendations(resp)
	assert.Contains(t, result.Content, "**1. Rice** — 90.0% confidence")
	assert.Contains(t, result.Content, "**2. Maize**")
	assert.NotContains(t, strings.SplitAfter(result.Content, "Maize**")[1], "% confidence")
}

func TestCropRecommendationsIdempotent(t *testing.T) {
	resp := &backend.CropRecommendationResponse{
		Success:          true,
		CropNames:        []string{"Rice"},
		ConfidenceScores: []float64{0.8},
		Justifications:   []string{"Fits the climate."},
	}
	first := CropRecommendations(resp)
	second := CropRecommendations(resp)
	assert.Equal(t, first.Content, second.Content)
}

func TestDomainTextSuccessPrefersResponse(t *testing.T) {
	fn := DomainText("Weather forecast")
	result := fn(&backend.DomainTextResponse{Success: true, Response: "Light rain expected tomorrow."})
	assert.Equal(t, "Light rain expected tomorrow.", result.Content)
}

func TestDomainTextSuccessFallsBackToResult(t *testing.T) {
	fn := DomainText("Crop yield prediction")
	result := fn(&backend.DomainTextResponse{Success: true, Result: "Expected yield: 4.2 t/ha."})
	assert.Equal(t, "Expected yield: 4.2 t/ha.", result.Content)
}

func TestDomainTextFailureNamesDomain(t *testing.T) {
	fn := DomainText("Weather forecast")
	result := fn(&backend.DomainTextResponse{Success: false, Error: "station offline"})
	assert.Equal(t, "Weather forecast error: station offline", result.Content)
}

func TestPestPredictionSections(t *testing.T) {
	resp := &backend.PestPredictionResponse{
		Success:                 true,
		PossiblePestNames:       []string{"Bollworm", "Aphids"},
		Description:             "Both thrive in humid conditions.",
		PesticideRecommendation: "Use neem-based spray in the evening.",
	}
	result := PestPrediction(resp)
	assert.Contains(t, result.Content, "- Bollworm")
	assert.Contains(t, result.Content, "- Aphids")
	assert.Contains(t, result.Content, "**Description**")
	assert.Contains(t, result.Content, "**Pesticide Recommendation**")
}

func TestPestPredictionOmitsEmptySections(t *testing.T) {
	result := PestPrediction(&backend.PestPredictionResponse{
		Success:           true,
		PossiblePestNames: []string{"Whitefly"},
	})
	assert.NotContains(t, result.Content, "Description")
	assert.NotContains(t, result.Content, "Pesticide Recommendation")
}

func TestPestPredictionFailureErrorLineOnly(t *testing.T) {
	result := PestPrediction(&backend.PestPredictionResponse{Success: false, Error: "image unreadable"})
	assert.Equal(t, "Pest prediction error: image unreadable", result.Content)
}

func TestCropHealthHeaderDependsOnImage(t *testing.T) {
	withImage := CropHealth(&backend.CropHealthResponse{Success: true, HasImage: true, Diseases: []string{"Late Blight"}})
	assert.Contains(t, withImage.Content, "I analyzed your crop image")

	withoutImage := CropHealth(&backend.CropHealthResponse{Success: true, Diseases: []string{"Late Blight"}})
	assert.Contains(t, withoutImage.Content, "Based on the symptoms you described")
}

func TestCropHealthAnnotatesConfidence(t *testing.T) {
	resp := &backend.CropHealthResponse{
		Success:              true,
		HasImage:             true,
		Diseases:             []string{"Bacterial Leaf Blight", "Brown Spot"},
		DiseaseProbabilities: []float64{0.87, 0.13},
		Symptoms:             []string{"Yellowing leaf tips"},
		Treatments:           []string{"Apply copper fungicide"},
	}
	result := CropHealth(resp)
	assert.Contains(t, result.Content, "Bacterial Leaf Blight (87.0% confidence)")
	assert.Contains(t, result.Content, "**Symptoms**")
	assert.Contains(t, result.Content, "**Treatments**")
	assert.NotContains(t, result.Content, "Prevention Tips")
}

func TestDeepResearchStripsChartReferences(t *testing.T) {
	resp := &backend.DeepResearchResponse{
		Success: true,
		Response: "Wheat exports rose 12% this quarter.\n" +
			"Chart available at: /tmp/charts/wheat-exports.png\n" +
			"The attached chart shows the regional split.\n" +
			"Prices should stabilize by March.",
		AnswerQualityGrade: "A",
		ProcessingTime:     42.5,
	}
	result := DeepResearch(resp)
	assert.NotContains(t, result.Content, "Chart available at:")
	assert.NotContains(t, result.Content, "The attached chart")
	assert.Contains(t, result.Content, "Wheat exports rose 12% this quarter.")
	assert.Contains(t, result.Content, "Prices should stabilize by March.")
	assert.Contains(t, result.Content, "*Answer quality: A*")
	assert.Contains(t, result.Content, "*Processed in 42.5s*")
}

func TestDeepResearchStripsMidLineChartReference(t *testing.T) {
	resp := &backend.DeepResearchResponse{
		Success: true,
		Response: "Results below. Chart available at: /tmp/charts/exports.png\n" +
			"Prices hold steady through March.",
	}
	result := DeepResearch(resp)
	assert.Contains(t, result.Content, "Results below.")
	assert.NotContains(t, result.Content, "/tmp/charts/exports.png")
	assert.NotContains(t, result.Content, "Chart available at:")
	assert.Contains(t, result.Content, "Prices hold steady through March.")
}

func TestRiskManagementStringAnalysis(t *testing.T) {
	raw, _ := json.Marshal("Input costs are trending up.")
	result := RiskManagement(&backend.RiskManagementResponse{
		Success:         true,
		RiskAnalysis:    raw,
		Recommendations: []string{"Hedge 30% of expected output"},
		Timestamp:       "2026-08-01T10:00:00Z",
	})
	assert.Contains(t, result.Content, "Input costs are trending up.")
	assert.Contains(t, result.Content, "- Hedge 30% of expected output")
	assert.Contains(t, result.Content, "*Generated at 2026-08-01T10:00:00Z*")
}

func TestRiskManagementObjectAnalysisPrettyPrinted(t *testing.T) {
	raw := json.RawMessage(`{"market_risk":"high","weather_risk":"low"}`)
	result := RiskManagement(&backend.RiskManagementResponse{Success: true, RiskAnalysis: raw})
	assert.Contains(t, result.Content, `"market_risk": "high"`)
	assert.Contains(t, result.Content, `"weather_risk": "low"`)
}

func TestForDispatchTable(t *testing.T) {
	// price-forecasting aliases to the risk-management normalizer.
	raw, _ := json.Marshal("steady")
	resp := &backend.RiskManagementResponse{Success: true, RiskAnalysis: raw}
	viaAlias := For(registry.AgentPriceForecasting)(resp)
	direct := RiskManagement(resp)
	assert.Equal(t, direct.Content, viaAlias.Content)
}

func TestForUnknownAgentFallsBackToGeneric(t *testing.T) {
	result := For("no-such-agent")(&backend.GenericResponse{Success: true, Response: "hi"})
	assert.Equal(t, "hi", result.Content)
}

func TestForWrongShapeDoesNotPanic(t *testing.T) {
	result := For(registry.AgentCropHealth)(&backend.GenericResponse{Success: true, Response: "hi"})
	require.NotEmpty(t, result.Content)
	assert.Contains(t, result.Content, "Error:")
}

func TestNormalizersNeverEmptyOnFailure(t *testing.T) {
	cases := map[string]any{
		registry.AgentCropRecommendations: &backend.CropRecommendationResponse{},
		registry.AgentWeatherAdvisory:     &backend.DomainTextResponse{},
		registry.AgentCropYield:           &backend.DomainTextResponse{},
		registry.AgentCreditLoanPolicy:    &backend.DomainTextResponse{},
		registry.AgentMarketPrices:        &backend.DomainTextResponse{},
		registry.AgentPestPrediction:      &backend.PestPredictionResponse{},
		registry.AgentCropHealth:          &backend.CropHealthResponse{},
		registry.AgentRiskManagement:      &backend.RiskManagementResponse{},
		registry.AgentDeepResearch:        &backend.DeepResearchResponse{},
	}
	for agentType, raw := range cases {
		result := For(agentType)(raw)
		assert.NotEmpty(t, strings.TrimSpace(result.Content), "agent %s produced empty content", agentType)
	}
}
