package domain

// TreeConflict is one conflicting name listed under a container row
type TreeConflict struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
}

// TreeContainer is one container row of the hierarchical view
type TreeContainer struct {
	Name      string         `json:"name"`
	IP        string         `json:"ip,omitempty"`
	Service   string         `json:"service,omitempty"`
	Aliases   []string       `json:"aliases,omitempty"`
	Conflicts []TreeConflict `json:"conflicts"`
}

// Severities lists the container's conflict severities in listed order
func (c TreeContainer) Severities() []Severity {
	sevs := make([]Severity, len(c.Conflicts))
	for i, tc := range c.Conflicts {
		sevs[i] = tc.Severity
	}
	return sevs
}

// TreeNetwork groups the container rows attached to one network
type TreeNetwork struct {
	Name       string          `json:"name"`
	Containers []TreeContainer `json:"containers"`
}
