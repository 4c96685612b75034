package policy

// SafetyCategory labels content flagged by moderation. The set is closed:
// the guard model may only answer with these values, and anything else is
// a protocol error.
type SafetyCategory string

const (
	CategorySexualContent   SafetyCategory = "sexual_content"
	CategorySexualMinors    SafetyCategory = "sexual_minors"
	CategorySelfHarm        SafetyCategory = "self_harm"
	CategoryViolence        SafetyCategory = "violence"
	CategoryWeaponsIllicit  SafetyCategory = "weapons_illicit"
	CategoryHateAbuse       SafetyCategory = "hate_abuse"
	CategoryDrugsAlcohol    SafetyCategory = "drugs_alcohol"
	CategoryMedicalAdvice   SafetyCategory = "medical_advice"
	CategoryPrivacyPersonal SafetyCategory = "privacy_personal_data"
	CategoryOtherSensitive  SafetyCategory = "other_sensitive"

	// CategoryAbuseVictimization is not part of the classifier's label set
	// but participates in crisis detection when surfaced by a caller.
	CategoryAbuseVictimization SafetyCategory = "abuse_victimization"
)

// AllCategories lists the categories the classifier is allowed to emit,
// in the order they appear in the moderation prompt.
var AllCategories = []SafetyCategory{
	CategorySexualContent,
	CategorySexualMinors,
	CategorySelfHarm,
	CategoryViolence,
	CategoryWeaponsIllicit,
	CategoryHateAbuse,
	CategoryDrugsAlcohol,
	CategoryMedicalAdvice,
	CategoryPrivacyPersonal,
	CategoryOtherSensitive,
}

// validCategories is the set of known category strings for validation.
var validCategories = map[SafetyCategory]bool{
	CategorySexualContent: true, CategorySexualMinors: true,
	CategorySelfHarm: true, CategoryViolence: true,
	CategoryWeaponsIllicit: true, CategoryHateAbuse: true,
	CategoryDrugsAlcohol: true, CategoryMedicalAdvice: true,
	CategoryPrivacyPersonal: true, CategoryOtherSensitive: true,
	CategoryAbuseVictimization: true,
}

// IsValidCategory returns true if the given name is a known safety category.
func IsValidCategory(c SafetyCategory) bool {
	return validCategories[c]
}

// CrisisCategories is the subset of categories that trigger a crisis lockout.
var CrisisCategories = NewCategorySet(
	CategorySelfHarm,
	CategorySexualMinors,
	CategoryAbuseVictimization,
)

// CategorySet is an unordered set of safety categories.
type CategorySet map[SafetyCategory]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(cats ...SafetyCategory) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c SafetyCategory) bool {
	_, ok := s[c]
	return ok
}

// Add inserts c into the set.
func (s CategorySet) Add(c SafetyCategory) {
	s[c] = struct{}{}
}

// Intersects reports whether the two sets share any category.
func (s CategorySet) Intersects(other CategorySet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for c := range small {
		if _, ok := large[c]; ok {
			return true
		}
	}
	return false
}

// Slice returns the set's members in prompt order, with any categories
// outside AllCategories appended after. Deterministic for logging.
func (s CategorySet) Slice() []SafetyCategory {
	out := make([]SafetyCategory, 0, len(s))
	for _, c := range AllCategories {
		if s.Contains(c) {
			out = append(out, c)
		}
	}
	if s.Contains(CategoryAbuseVictimization) {
		out = append(out, CategoryAbuseVictimization)
	}
	return out
}

// Strings returns the set's members as plain strings in prompt order.
func (s CategorySet) Strings() []string {
	cats := s.Slice()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
