package agent

import "fmt"

// Role identifies what an agent is used for
type Role string

const (
	RoleCoordinator Role = "coordinator"
	RoleDelivery    Role = "delivery"
	RoleExtraction  Role = "extraction"
	RoleMarketData  Role = "market_data"
	RoleSentiment   Role = "sentiment"
	RoleTechnical   Role = "technical"
)

// Agent describes one agent of the external pipeline
type Agent struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Name    string `json:"name"`
	Purpose string `json:"purpose"`
}

// IDs holds the configured agent identifiers
type IDs struct {
	Coordinator string
	Delivery    string
	Extraction  string
	MarketData  string
	Sentiment   string
	Technical   string
}

// DefaultIDs are the identifiers of the hosted pipeline
func DefaultIDs() IDs {
	return IDs{
		Coordinator: "69a023c473b2968d073614b6",
		Delivery:    "69a023dca2c9d4f61dfad0ea",
		Extraction:  "69a023c473b2968d073614b6",
		MarketData:  "69a023ad95ad8ebce61fe16f",
		Sentiment:   "69a023aed3c3061698671926",
		Technical:   "69a023ae9c293c5b871a4b60",
	}
}

// Registry resolves agents by role and id
type Registry struct {
	agents []Agent
}

// NewRegistry builds the registry, falling back to defaults for empty ids
func NewRegistry(ids IDs) *Registry {
	def := DefaultIDs()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}

	return &Registry{agents: []Agent{
		{ID: pick(ids.Coordinator, def.Coordinator), Role: RoleCoordinator, Name: "Portfolio Analysis Coordinator", Purpose: "Orchestrates analysis and produces the full report"},
		{ID: pick(ids.Delivery, def.Delivery), Role: RoleDelivery, Name: "Report Delivery Agent", Purpose: "Sends formatted reports via email"},
		{ID: pick(ids.Extraction, def.Extraction), Role: RoleExtraction, Name: "Holdings Extraction", Purpose: "Extracts holdings from uploaded statements"},
		{ID: pick(ids.MarketData, def.MarketData), Role: RoleMarketData, Name: "Market Data Agent", Purpose: "Fetches real-time prices and volume data"},
		{ID: pick(ids.Sentiment, def.Sentiment), Role: RoleSentiment, Name: "News & Sentiment Agent", Purpose: "Researches headlines and market sentiment"},
		{ID: pick(ids.Technical, def.Technical), Role: RoleTechnical, Name: "Technical Analysis Agent", Purpose: "Computes RSI, MACD, SMA and chart patterns"},
	}}
}

// ID returns the agent id for a role
func (r *Registry) ID(role Role) string {
	for _, a := range r.agents {
		if a.Role == role {
			return a.ID
		}
	}
	return ""
}

// Lookup finds the first agent with the given id
func (r *Registry) Lookup(id string) (Agent, error) {
	for _, a := range r.agents {
		if a.ID == id {
			return a, nil
		}
	}
	return Agent{}, fmt.Errorf("%w: %s", ErrUnknownAgent, id)
}

// Name returns a display name for an agent id, or the id itself
func (r *Registry) Name(id string) string {
	if a, err := r.Lookup(id); err == nil {
		return a.Name
	}
	return id
}

// All returns the registered agents
func (r *Registry) All() []Agent {
	out := make([]Agent, len(r.agents))
	copy(out, r.agents)
	return out
}
