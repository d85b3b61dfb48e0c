// Package normalize flattens the heterogeneous backend response shapes into
// a single renderable message payload. One pure function per agent type,
// dispatched through a lookup table keyed by agent id.
//
// Every normalizer guarantees non-empty content, even on failure, and keeps
// the agent-specific raw fields verbatim in metadata. Missing fields degrade
// to partial content; a normalizer never panics and never drops a turn.
package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"pragati/internal/backend"
	"pragati/internal/registry"
)

// Result is the uniform payload attached to an assistant chat message.
type Result struct {
	Content  string
	Metadata map[string]any
}

const unknownError = "Unknown error occurred"

func errorOr(err string) string {
	if strings.TrimSpace(err) == "" {
		return unknownError
	}
	return err
}

// Generic maps the generic RAG/tooling response.
func Generic(resp *backend.GenericResponse) Result {
	meta := map[string]any{
		"success": resp.Success,
		"error":   resp.Error,
	}
	if resp.Success {
		return Result{Content: nonEmpty(resp.Response), Metadata: meta}
	}
	return Result{Content: "Error: " + errorOr(resp.Error), Metadata: meta}
}

// CropRecommendations renders the parallel crop/confidence/justification
// arrays. Indexes beyond a shorter array are simply skipped.
func CropRecommendations(resp *backend.CropRecommendationResponse) Result {
	meta := map[string]any{
		"crop_names":        resp.CropNames,
		"confidence_scores": resp.ConfidenceScores,
		"justifications":    resp.Justifications,
		"success":           resp.Success,
		"error":             resp.Error,
	}

	var b strings.Builder
	b.WriteString("Based on your soil and climate conditions, here are my crop recommendations:\n")
	for i, name := range resp.CropNames {
		b.WriteString(fmt.Sprintf("\n**%d. %s**", i+1, name))
		if i < len(resp.ConfidenceScores) {
			b.WriteString(fmt.Sprintf(" — %.1f%% confidence", resp.ConfidenceScores[i]*100))
		}
		if i < len(resp.Justifications) && resp.Justifications[i] != "" {
			b.WriteString("\n" + resp.Justifications[i])
		}
		b.WriteString("\n")
	}
	return Result{Content: strings.TrimRight(b.String(), "\n") + "\n", Metadata: meta}
}

// DomainText maps the shared text-response contract used by the weather,
// yield, market-price and credit-policy agents. domain names the service in
// the error prefix, e.g. "Weather forecast error: ...".
func DomainText(domain string) func(*backend.DomainTextResponse) Result {
	return func(resp *backend.DomainTextResponse) Result {
		meta := map[string]any{
			"success": resp.Success,
			"error":   resp.Error,
		}
		if resp.Response != "" {
			meta["response"] = resp.Response
		}
		if resp.Result != "" {
			meta["result"] = resp.Result
		}
		if resp.Success {
			return Result{Content: nonEmpty(resp.Text()), Metadata: meta}
		}
		return Result{Content: domain + " error: " + errorOr(resp.Error), Metadata: meta}
	}
}

// PestPrediction renders likely pests with optional description and
// pesticide guidance sections.
func PestPrediction(resp *backend.PestPredictionResponse) Result {
	meta := map[string]any{
		"possible_pest_names":      resp.PossiblePestNames,
		"description":              resp.Description,
		"pesticide_recommendation": resp.PesticideRecommendation,
		"success":                  resp.Success,
		"error":                    resp.Error,
	}
	if !resp.Success {
		return Result{Content: "Pest prediction error: " + errorOr(resp.Error), Metadata: meta}
	}

	var b strings.Builder
	b.WriteString("Here is my pest analysis for your crop:\n")
	for _, name := range resp.PossiblePestNames {
		b.WriteString("\n- " + name)
	}
	if resp.Description != "" {
		b.WriteString("\n\n**Description**\n" + resp.Description)
	}
	if resp.PesticideRecommendation != "" {
		b.WriteString("\n\n**Pesticide Recommendation**\n" + resp.PesticideRecommendation)
	}
	return Result{Content: b.String(), Metadata: meta}
}

// CropHealth renders the disease-detection result. The header reflects
// whether an image was analyzed; each list section is omitted when empty.
func CropHealth(resp *backend.CropHealthResponse) Result {
	meta := map[string]any{
		"diseases":              resp.Diseases,
		"disease_probabilities": resp.DiseaseProbabilities,
		"symptoms":              resp.Symptoms,
		"treatments":            resp.Treatments,
		"prevention_tips":       resp.PreventionTips,
		"has_image":             resp.HasImage,
		"success":               resp.Success,
		"error":                 resp.Error,
	}
	if !resp.Success {
		return Result{Content: "Crop health analysis error: " + errorOr(resp.Error), Metadata: meta}
	}

	var b strings.Builder
	if resp.HasImage {
		b.WriteString("I analyzed your crop image. Here is what I found:\n")
	} else {
		b.WriteString("Based on the symptoms you described, here is my assessment:\n")
	}
	for i, disease := range resp.Diseases {
		b.WriteString("\n- " + disease)
		if i < len(resp.DiseaseProbabilities) {
			b.WriteString(fmt.Sprintf(" (%.1f%% confidence)", resp.DiseaseProbabilities[i]*100))
		}
	}
	writeListSection(&b, "Symptoms", resp.Symptoms)
	writeListSection(&b, "Treatments", resp.Treatments)
	writeListSection(&b, "Prevention Tips", resp.PreventionTips)
	return Result{Content: b.String(), Metadata: meta}
}

func writeListSection(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n\n**" + title + "**")
	for _, item := range items {
		b.WriteString("\n- " + item)
	}
}

// chartReferenceMarkers flag pointers at a server-side chart file. Everything
// from a marker to the end of its line is dropped; the chart is delivered out
// of band, so the textual reference is noise.
var chartReferenceMarkers = []string{
	"Chart available at:",
	"The attached chart",
}

// DeepResearch strips chart-file references, then appends optional grading
// and timing footers.
func DeepResearch(resp *backend.DeepResearchResponse) Result {
	meta := map[string]any{
		"chart_path":           resp.ChartPath,
		"answer_quality_grade": resp.AnswerQualityGrade,
		"processing_time":      resp.ProcessingTime,
		"success":              resp.Success,
		"error":                resp.Error,
	}
	if !resp.Success {
		return Result{Content: "Deep research error: " + errorOr(resp.Error), Metadata: meta}
	}

	content := stripChartReferences(resp.Response)
	var footer strings.Builder
	if resp.AnswerQualityGrade != "" {
		footer.WriteString(fmt.Sprintf("\n\n*Answer quality: %s*", resp.AnswerQualityGrade))
	}
	if resp.ProcessingTime > 0 {
		footer.WriteString(fmt.Sprintf("\n*Processed in %.1fs*", resp.ProcessingTime))
	}
	return Result{Content: nonEmpty(content + footer.String()), Metadata: meta}
}

func stripChartReferences(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		truncated := false
		for _, marker := range chartReferenceMarkers {
			if idx := strings.Index(line, marker); idx >= 0 {
				line = line[:idx]
				truncated = true
			}
		}
		if truncated {
			line = strings.TrimRight(line, " \t")
			if line == "" {
				// The line was nothing but the reference; drop it entirely.
				continue
			}
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// RiskManagement renders the risk analysis (string or structured object)
// with bulleted recommendations and a timestamp footer. It serves both the
// risk-management and price-forecasting agent ids.
func RiskManagement(resp *backend.RiskManagementResponse) Result {
	meta := map[string]any{
		"risk_analysis":   resp.RiskAnalysis,
		"recommendations": resp.Recommendations,
		"timestamp":       resp.Timestamp,
		"success":         resp.Success,
		"error":           resp.Error,
	}
	if !resp.Success {
		return Result{Content: "Risk analysis error: " + errorOr(resp.Error), Metadata: meta}
	}

	var b strings.Builder
	b.WriteString("Here is my risk analysis:\n")
	if analysis := renderRiskAnalysis(resp.RiskAnalysis); analysis != "" {
		b.WriteString("\n" + analysis + "\n")
	}
	if len(resp.Recommendations) > 0 {
		b.WriteString("\n**Recommendations**")
		for _, rec := range resp.Recommendations {
			b.WriteString("\n- " + rec)
		}
		b.WriteString("\n")
	}
	if resp.Timestamp != "" {
		b.WriteString(fmt.Sprintf("\n*Generated at %s*", resp.Timestamp))
	}
	return Result{Content: strings.TrimRight(b.String(), "\n"), Metadata: meta}
}

// renderRiskAnalysis accepts either a JSON string or an arbitrary object and
// returns displayable text. Objects are pretty-printed.
func renderRiskAnalysis(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asObject any
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return string(raw)
	}
	pretty, err := json.MarshalIndent(asObject, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}

func nonEmpty(content string) string {
	if strings.TrimSpace(content) == "" {
		return "The service returned an empty response. Please try again."
	}
	return content
}

// Func adapts a typed normalizer to the dispatch table's uniform signature.
// A raw value of the wrong type degrades to a generic error result instead
// of panicking.
type Func func(raw any) Result

// For returns the normalizer registered for the given agent id. Unknown agent
// ids fall back to the generic normalizer.
func For(agentType string) Func {
	if fn, ok := table[agentType]; ok {
		return fn
	}
	return adapt(Generic)
}

var table = map[string]Func{
	registry.AgentCropRecommendations: adapt(CropRecommendations),
	registry.AgentWeatherAdvisory:     adapt(DomainText("Weather forecast")),
	registry.AgentCropYield:           adapt(DomainText("Crop yield prediction")),
	registry.AgentCreditLoanPolicy:    adapt(DomainText("Credit policy")),
	registry.AgentMarketPrices:        adapt(DomainText("Market price")),
	registry.AgentPestPrediction:      adapt(PestPrediction),
	registry.AgentCropHealth:          adapt(CropHealth),
	registry.AgentRiskManagement:      adapt(RiskManagement),
	registry.AgentPriceForecasting:    adapt(RiskManagement),
	registry.AgentDeepResearch:        adapt(DeepResearch),
}

func adapt[T any](fn func(*T) Result) Func {
	return func(raw any) Result {
		resp, ok := raw.(*T)
		if !ok || resp == nil {
			return Result{
				Content:  "Error: " + unknownError,
				Metadata: map[string]any{"success": false, "error": "unexpected response shape"},
			}
		}
		return fn(resp)
	}
}
