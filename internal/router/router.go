// Package router decides which backend call a user turn should hit. The
// decision is a pure function of the session's agent, the chat/tool sub-mode,
// the tools toggle and the message itself; it performs no I/O.
package router

import (
	"strings"

	"pragati/internal/backend"
	"pragati/internal/registry"
)

// Kind classifies the routing outcome.
type Kind int

const (
	// KindGeneric routes to the generic RAG/tooling chat endpoint.
	KindGeneric Kind = iota
	// KindSpecialized routes to one agent's dedicated endpoint.
	KindSpecialized
	// KindToolWidget means no network call: the UI renders the agent's
	// standalone tool widget instead.
	KindToolWidget
)

// Decision is the routing result for one user turn.
type Decision struct {
	Kind      Kind
	AgentType string       // set for KindSpecialized
	Mode      backend.Mode // set for KindGeneric and deep-research
}

// Input captures everything the routing decision depends on.
type Input struct {
	Agent        *registry.Agent // nil when no agent is bound to the session
	AgentChat    bool            // true when the agent session is in conversational sub-mode
	ToolsEnabled bool
	Content      string
	Language     string // currently selected language code
	HasFiles     bool
}

// specializedAgents is the closed set of agent ids with dedicated endpoints.
// price-forecasting and risk-management are aliased to the same handler.
var specializedAgents = map[string]string{
	registry.AgentCropRecommendations: registry.AgentCropRecommendations,
	registry.AgentWeatherAdvisory:     registry.AgentWeatherAdvisory,
	registry.AgentCropYield:           registry.AgentCropYield,
	registry.AgentCreditLoanPolicy:    registry.AgentCreditLoanPolicy,
	registry.AgentPestPrediction:      registry.AgentPestPrediction,
	registry.AgentCropHealth:          registry.AgentCropHealth,
	registry.AgentMarketPrices:        registry.AgentMarketPrices,
	registry.AgentRiskManagement:      registry.AgentRiskManagement,
	registry.AgentPriceForecasting:    registry.AgentRiskManagement,
	registry.AgentDeepResearch:        registry.AgentDeepResearch,
}

// Route evaluates the decision table in precedence order; the first match
// wins. A message sent with no agent, or while the agent's chat mode is
// inactive, always lands on the generic endpoint.
func Route(in Input) Decision {
	if in.Agent == nil || !in.AgentChat {
		return Decision{Kind: KindGeneric, Mode: genericMode(in)}
	}

	if handler, ok := specializedAgents[in.Agent.ID]; ok {
		decision := Decision{Kind: KindSpecialized, AgentType: handler}
		if handler == registry.AgentDeepResearch {
			// deep-research is the only specialist that honors the tools toggle.
			if in.ToolsEnabled {
				decision.Mode = backend.ModeTooling
			} else {
				decision.Mode = backend.ModeRAG
			}
		}
		return decision
	}

	// Agent bound but without a dedicated endpoint: the standalone tool
	// widget owns the turn, no network call from the core.
	return Decision{Kind: KindToolWidget}
}

func genericMode(in Input) backend.Mode {
	if !in.ToolsEnabled || IsTranslationQuery(in.Content, in.Language) {
		return backend.ModeRAG
	}
	return backend.ModeTooling
}

// IsTranslationQuery reports whether a turn looks like a translation or
// multilingual request. The substring heuristic misfires on unrelated
// messages containing "translate"; preserved as observed behavior.
func IsTranslationQuery(content, language string) bool {
	lowered := strings.ToLower(content)
	if strings.Contains(lowered, "translate") || strings.Contains(lowered, "translation") {
		return true
	}
	return language != "" && language != registry.DefaultLanguageCode
}
