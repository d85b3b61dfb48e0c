package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, agent := range Agents {
		assert.False(t, seen[agent.ID], "duplicate agent id %s", agent.ID)
		seen[agent.ID] = true
	}
}

func TestAgentsAreFullyPopulated(t *testing.T) {
	for _, agent := range Agents {
		assert.NotEmpty(t, agent.Name, "agent %s", agent.ID)
		assert.NotEmpty(t, agent.Description, "agent %s", agent.ID)
		assert.NotEmpty(t, agent.Icon, "agent %s", agent.ID)
		assert.NotEmpty(t, agent.Category, "agent %s", agent.ID)
		assert.Contains(t, []Mode{ModeTool, ModeAgent, ModeBoth}, agent.Mode, "agent %s", agent.ID)
	}
}

func TestAgentByID(t *testing.T) {
	agent, ok := AgentByID(AgentDeepResearch)
	require.True(t, ok)
	assert.Equal(t, "Deep Research", agent.Name)
	assert.Equal(t, ModeAgent, agent.Mode)

	_, ok = AgentByID("soil-sommelier")
	assert.False(t, ok)
}

func TestRoutableAgentConstantsAreRegistered(t *testing.T) {
	for _, id := range []string{
		AgentCropRecommendations,
		AgentWeatherAdvisory,
		AgentCropYield,
		AgentCreditLoanPolicy,
		AgentPestPrediction,
		AgentCropHealth,
		AgentMarketPrices,
		AgentPriceForecasting,
		AgentRiskManagement,
		AgentDeepResearch,
	} {
		_, ok := AgentByID(id)
		assert.True(t, ok, "agent id %s missing from registry", id)
	}
}

func TestLanguageCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, lang := range SupportedLanguages {
		assert.False(t, seen[lang.Code], "duplicate language code %s", lang.Code)
		seen[lang.Code] = true
	}
}

func TestLanguageByCode(t *testing.T) {
	lang, ok := LanguageByCode("hi")
	require.True(t, ok)
	assert.Equal(t, "Hindi", lang.Name)

	_, ok = LanguageByCode("xx")
	assert.False(t, ok)

	_, ok = LanguageByCode(DefaultLanguageCode)
	assert.True(t, ok, "default language must be registered")
}
