package models

// Restaurant is one negotiable option within a scenario.
type Restaurant struct {
	Name       string `json:"name"`
	Cuisine    string `json:"cuisine"`
	PriceRange [2]int `json:"price_range"`
}

// SpendingPreference is one entry of an agent's ranked price-range table.
type SpendingPreference struct {
	PriceRange [2]int `json:"price_range"`
	Utility    int    `json:"utility"`
}

// CuisinePreference is one entry of an agent's ranked cuisine table.
type CuisinePreference struct {
	Cuisine string `json:"cuisine"`
	Utility int    `json:"utility"`
}

// Agent holds the private preference functions for one of the two roles in a
// scenario. Utility for a restaurant is the sum of its cuisine score and its
// price-range score.
type Agent struct {
	SpendingFunc []SpendingPreference `json:"spending_func"`
	CuisineFunc  []CuisinePreference  `json:"cuisine_func"`
}

// Utility returns the agent's integer score for the restaurant. Entries
// missing from the preference tables score zero.
func (a *Agent) Utility(r *Restaurant) int {
	score := 0
	for _, sp := range a.SpendingFunc {
		if sp.PriceRange == r.PriceRange {
			score += sp.Utility
			break
		}
	}
	for _, cp := range a.CuisineFunc {
		if cp.Cuisine == r.Cuisine {
			score += cp.Utility
			break
		}
	}
	return score
}

// Scenario is an immutable negotiation setup: a restaurant list plus one
// preference profile per agent role.
type Scenario struct {
	UUID        string       `json:"uuid"`
	Restaurants []Restaurant `json:"restaurants"`
	Agents      []Agent      `json:"agents"`
}

// Restaurant returns the restaurant at index, or nil when out of range.
func (s *Scenario) Restaurant(index int) *Restaurant {
	if index < 0 || index >= len(s.Restaurants) {
		return nil
	}
	return &s.Restaurants[index]
}

// AgentUtility returns agentIndex's utility for the restaurant at index.
func (s *Scenario) AgentUtility(agentIndex, restaurantIndex int) int {
	r := s.Restaurant(restaurantIndex)
	if r == nil || agentIndex < 0 || agentIndex >= len(s.Agents) {
		return 0
	}
	return s.Agents[agentIndex].Utility(r)
}
