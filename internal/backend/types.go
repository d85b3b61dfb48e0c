// Package backend holds the typed clients and wire schemas for the
// agricultural AI services. Every response carries a success flag and, on
// failure, an error string; shapes otherwise differ per agent and are
// flattened into renderable text by internal/normalize.
package backend

import (
	"encoding/json"

	"pragati/internal/chat"
)

// Mode selects the generic endpoint's processing strategy.
type Mode string

const (
	ModeRAG     Mode = "rag"
	ModeTooling Mode = "tooling"
)

// QueryContext carries the conversational context for the generic endpoint.
type QueryContext struct {
	AgentType        string      `json:"agent_type,omitempty"`
	PreviousMessages []chat.Turn `json:"previous_messages,omitempty"`
}

// QueryRequest is the request body for the generic chat endpoint.
type QueryRequest struct {
	Query    string        `json:"query"`
	Language string        `json:"language,omitempty"`
	Mode     Mode          `json:"mode,omitempty"`
	Context  *QueryContext `json:"context,omitempty"`
}

// GenericResponse is the generic RAG/tooling endpoint's response.
type GenericResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// CropRecommendationResponse carries parallel, index-aligned arrays.
type CropRecommendationResponse struct {
	Success          bool      `json:"success"`
	CropNames        []string  `json:"crop_names"`
	ConfidenceScores []float64 `json:"confidence_scores"`
	Justifications   []string  `json:"justifications"`
	Error            string    `json:"error,omitempty"`
}

// DomainTextResponse is shared by the weather, yield, market-price and
// credit-policy agents: plain text under either "response" or "result".
type DomainTextResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Text returns whichever of response/result the backend populated.
func (r *DomainTextResponse) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Result
}

// PestPredictionResponse lists likely pests with optional guidance sections.
type PestPredictionResponse struct {
	Success                 bool     `json:"success"`
	PossiblePestNames       []string `json:"possible_pest_names"`
	Description             string   `json:"description,omitempty"`
	PesticideRecommendation string   `json:"pesticide_recommendation,omitempty"`
	Error                   string   `json:"error,omitempty"`
}

// CropHealthResponse is the disease-detection result. Treatments keeps the
// backend's capitalized JSON key.
type CropHealthResponse struct {
	Success              bool      `json:"success"`
	Diseases             []string  `json:"diseases"`
	DiseaseProbabilities []float64 `json:"disease_probabilities"`
	Symptoms             []string  `json:"symptoms"`
	Treatments           []string  `json:"Treatments"`
	PreventionTips       []string  `json:"prevention_tips"`
	Error                string    `json:"error,omitempty"`
	HasImage             bool      `json:"has_image"`
}

// DeepResearchResponse is the long-form research result with optional chart
// artifact and grading footers.
type DeepResearchResponse struct {
	Success            bool    `json:"success"`
	Response           string  `json:"response"`
	ChartPath          string  `json:"chart_path,omitempty"`
	AnswerQualityGrade string  `json:"answer_quality_grade,omitempty"`
	ProcessingTime     float64 `json:"processing_time,omitempty"`
	Error              string  `json:"error,omitempty"`
}

// RiskManagementResponse serves both the risk-management and
// price-forecasting agents. RiskAnalysis may be a plain string or a
// structured object, so it stays raw until normalization.
type RiskManagementResponse struct {
	Success         bool            `json:"success"`
	RiskAnalysis    json.RawMessage `json:"risk_analysis,omitempty"`
	Recommendations []string        `json:"recommendations"`
	Timestamp       string          `json:"timestamp,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// TranslationResponse is the translation service's result.
type TranslationResponse struct {
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
}
