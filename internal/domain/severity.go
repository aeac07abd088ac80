package domain

// Severity classifies how serious a naming conflict is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityWarning  Severity = "warning"
)

// severityRank orders severities for sorting and comparison.
// Lower rank means more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityWarning:  2,
}

// Rank returns the sort position of a severity, most severe first.
// Unknown values rank after every known severity.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// MoreSevere reports whether s strictly outranks other
func (s Severity) MoreSevere(other Severity) bool {
	return s.Rank() < other.Rank()
}

// Valid reports whether s is a recognised severity value
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// DominantSeverity reduces a non-empty severity list to its most severe
// entry. The fold starts at warning and only a strictly more severe value
// replaces the running result, so among equals the first one wins.
// Callers gate on non-empty input; an empty list yields warning.
func DominantSeverity(severities []Severity) Severity {
	dominant := SeverityWarning
	for _, s := range severities {
		if s.MoreSevere(dominant) {
			dominant = s
		}
	}
	return dominant
}
