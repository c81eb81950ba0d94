package domain

// Decision statuses recorded in the decision log.
const (
	StatusFixed    = "fixed"
	StatusRejected = "rejected"
)

// Decision is a prior round's disposition of a finding.
// Fields carries status-dependent optional keys (commit and essence for
// fixed; priority, reason, and essence for rejected). Only ID and Status
// are guaranteed; legacy logs may omit everything else.
type Decision struct {
	ID     string
	Status string
	Fields map[string]string
}

// Field returns an optional field value, or "" if absent.
func (d Decision) Field(key string) string {
	return d.Fields[key]
}
