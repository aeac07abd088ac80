package domain

// ConflictingName attributes one colliding DNS name to its container
// and to where that name was declared
type ConflictingName struct {
	Container string `json:"container"`
	Source    string `json:"source"`
}

// Conflict is one detected DNS naming problem on a single network
type Conflict struct {
	Severity         Severity          `json:"severity"`
	DNSName          string            `json:"dns_name"`
	Network          string            `json:"network"`
	Containers       []string          `json:"containers"`
	Description      string            `json:"description"`
	Remediation      []string          `json:"remediation,omitempty"`
	ConflictingNames []ConflictingName `json:"conflicting_names,omitempty"`
}

// Report is the outcome of analysing one snapshot
type Report struct {
	Conflicts       []Conflict
	TotalNetworks   int
	TotalContainers int
}

// HasConflicts reports whether the scan found anything
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// CriticalCount counts conflicts at critical severity
func (r *Report) CriticalCount() int {
	return r.countAt(SeverityCritical)
}

// HighCount counts conflicts at high severity
func (r *Report) HighCount() int {
	return r.countAt(SeverityHigh)
}

// WarningCount counts conflicts at warning severity
func (r *Report) WarningCount() int {
	return r.countAt(SeverityWarning)
}

func (r *Report) countAt(sev Severity) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Severity == sev {
			n++
		}
	}
	return n
}

// Summary is the aggregate block clients display verbatim
type Summary struct {
	TotalNetworks   int `json:"total_networks"`
	TotalContainers int `json:"total_containers"`
	TotalConflicts  int `json:"total_conflicts"`
	CriticalCount   int `json:"critical_count"`
	HighCount       int `json:"high_count"`
	WarningCount    int `json:"warning_count"`
}

// Summary folds the report's totals and per-severity counts
func (r *Report) Summary() Summary {
	return Summary{
		TotalNetworks:   r.TotalNetworks,
		TotalContainers: r.TotalContainers,
		TotalConflicts:  len(r.Conflicts),
		CriticalCount:   r.CriticalCount(),
		HighCount:       r.HighCount(),
		WarningCount:    r.WarningCount(),
	}
}
