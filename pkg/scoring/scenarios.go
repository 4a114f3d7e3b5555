package scoring

// Scenario names a social-engineering attack type. Its position in the
// scenario list selects the weight matrix column it is scored against.
type Scenario struct {
	Key  string `json:"key"`  // machine key: "spear_phishing"
	Name string `json:"name"` // display label: "Spear-phishing"
}

// DefaultScenarios returns the fixed scenario list in weight matrix column order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Key: "phishing", Name: "Phishing (Email/Website)"},
		{Key: "spear_phishing", Name: "Spear-phishing"},
		{Key: "baiting", Name: "Baiting"},
		{Key: "water_holing", Name: "Water-Holing"},
		{Key: "pretexting", Name: "Pretexting"},
	}
}
