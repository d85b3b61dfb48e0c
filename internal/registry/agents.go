// Package registry holds the static language and agent tables the rest of
// the application reads. Both registries are immutable at runtime; adding an
// agent means adding one table row here plus one normalizer entry.
package registry

// Category groups agents in the sidebar.
type Category string

const (
	CategoryPrediction Category = "prediction"
	CategoryAdvisory   Category = "advisory"
	CategoryAnalysis   Category = "analysis"
	CategoryMarket     Category = "market"
	CategoryNews       Category = "news"
	CategoryResearch   Category = "research"
)

// Mode controls what selecting an agent opens: a form-like tool widget, a
// conversational chat, or a user-togglable combination of the two.
type Mode string

const (
	ModeTool  Mode = "tool"
	ModeAgent Mode = "agent"
	ModeBoth  Mode = "both"
)

// Agent is one named backend specialization.
type Agent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	Color       string   `json:"color"`
	Mode        Mode     `json:"mode"`
}

// Routable agent ids. These are the ids the router dispatches to dedicated
// backend endpoints; everything else falls through to the generic endpoint.
const (
	AgentCropRecommendations = "crop-recommendations"
	AgentWeatherAdvisory     = "weather-advisory"
	AgentCropYield           = "crop-yield"
	AgentCreditLoanPolicy    = "credit-loan-policy"
	AgentPestPrediction      = "pest-prediction"
	AgentCropHealth          = "crop-health"
	AgentMarketPrices        = "market-prices"
	AgentPriceForecasting    = "price-forecasting"
	AgentRiskManagement      = "risk-management"
	AgentDeepResearch        = "deep-research"
)

// Agents is the static agent registry.
var Agents = []Agent{
	{
		ID:          AgentCropRecommendations,
		Name:        "Crop Recommendations",
		Description: "I analyze soil test results, climate conditions, and market factors to suggest the best crops for your land",
		Icon:        "sprout",
		Category:    CategoryAdvisory,
		Color:       "text-green-600",
		Mode:        ModeBoth,
	},
	{
		ID:          AgentWeatherAdvisory,
		Name:        "Weather & Climate Advisory",
		Description: "I provide weather-based farming recommendations, seasonal planning advice, and climate adaptation strategies",
		Icon:        "cloud-sun",
		Category:    CategoryAdvisory,
		Color:       "text-sky-600",
		Mode:        ModeBoth,
	},
	{
		ID:          AgentCropYield,
		Name:        "Crop Yield Prediction",
		Description: "I forecast yields based on soil conditions, weather patterns, historical data, and farming practices",
		Icon:        "trending-up",
		Category:    CategoryPrediction,
		Color:       "text-amber-600",
		Mode:        ModeBoth,
	},
	{
		ID:          AgentCreditLoanPolicy,
		Name:        "Credit & Loan Policy",
		Description: "I explain agricultural credit schemes, loan eligibility, subsidies, and policy updates for farmers",
		Icon:        "landmark",
		Category:    CategoryAdvisory,
		Color:       "text-indigo-600",
		Mode:        ModeAgent,
	},
	{
		ID:          AgentPestPrediction,
		Name:        "Pest Prediction",
		Description: "I help identify, predict, and prevent pest infestations using weather data and crop monitoring",
		Icon:        "bug",
		Category:    CategoryPrediction,
		Color:       "text-red-600",
		Mode:        ModeBoth,
	},
	{
		ID:          AgentCropHealth,
		Name:        "Crop Health Analysis",
		Description: "I identify diseases, pests, and nutritional deficiencies from images and symptoms",
		Icon:        "leaf",
		Category:    CategoryAnalysis,
		Color:       "text-emerald-600",
		Mode:        ModeBoth,
	},
	{
		ID:          AgentMarketPrices,
		Name:        "Market Prices",
		Description: "I provide real-time crop prices, market trends, and trading insights",
		Icon:        "bar-chart",
		Category:    CategoryMarket,
		Color:       "text-orange-600",
		Mode:        ModeAgent,
	},
	{
		ID:          AgentPriceForecasting,
		Name:        "Market Price Forecasting",
		Description: "I analyze market trends, supply-demand factors, and economic indicators to predict future crop prices",
		Icon:        "line-chart",
		Category:    CategoryMarket,
		Color:       "text-purple-600",
		Mode:        ModeAgent,
	},
	{
		ID:          AgentRiskManagement,
		Name:        "Risk Management",
		Description: "I assess production and market risks for your crops and suggest mitigation strategies",
		Icon:        "shield",
		Category:    CategoryAnalysis,
		Color:       "text-rose-600",
		Mode:        ModeAgent,
	},
	{
		ID:          AgentDeepResearch,
		Name:        "Deep Research",
		Description: "I run in-depth multi-source research on agricultural questions and compile cited reports",
		Icon:        "microscope",
		Category:    CategoryResearch,
		Color:       "text-cyan-600",
		Mode:        ModeAgent,
	},
	{
		ID:          "fertilizer-recommendations",
		Name:        "Fertilizer Recommendation",
		Description: "I create customized fertilization plans based on soil tests, crop requirements, and growth stages",
		Icon:        "flask",
		Category:    CategoryAdvisory,
		Color:       "text-lime-600",
		Mode:        ModeTool,
	},
	{
		ID:          "irrigation-planning",
		Name:        "Irrigation Planning",
		Description: "I optimize water usage, scheduling, and irrigation methods based on soil moisture, weather, and crop needs",
		Icon:        "droplets",
		Category:    CategoryAdvisory,
		Color:       "text-blue-600",
		Mode:        ModeTool,
	},
	{
		ID:          "agriculture-news",
		Name:        "Agriculture News",
		Description: "I provide the latest farming news, policy updates, technology advances, and market developments",
		Icon:        "newspaper",
		Category:    CategoryNews,
		Color:       "text-slate-600",
		Mode:        ModeTool,
	},
}

// AgentByID looks up an agent in the registry by id.
func AgentByID(id string) (Agent, bool) {
	for _, agent := range Agents {
		if agent.ID == id {
			return agent, true
		}
	}
	return Agent{}, false
}
