package policy

// ModResult is the outcome of moderating a single piece of text.
// A result is produced fresh per call and never mutated after creation.
type ModResult struct {
	Allowed    bool
	Categories CategorySet
	Rationale  string
}

// Denied builds a fail-closed result carrying the given categories.
func Denied(rationale string, cats ...SafetyCategory) ModResult {
	return ModResult{
		Allowed:    false,
		Categories: NewCategorySet(cats...),
		Rationale:  rationale,
	}
}

// IsCrisis reports whether the result's categories intersect the crisis set.
func (r ModResult) IsCrisis() bool {
	return r.Categories.Intersects(CrisisCategories)
}
