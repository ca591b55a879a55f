package people

// IsGraphEligible reports whether a person may be shown in the graph.
// Hidden or soft-deleted people are excluded, and so are edges touching them.
func IsGraphEligible(p Person) bool {
	return p.ID != "" && p.Visible && !p.Deleted
}
