package diag

// Severity classifies an emitted diagnostic.
type Severity uint8

const (
	SevWarning   Severity = iota // recoverable fault report
	SevAssertion                 // violated invariant; the process terminates
)

var severityNames = [...]string{
	SevWarning:   "WARNING",
	SevAssertion: "ASSERTION",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}
