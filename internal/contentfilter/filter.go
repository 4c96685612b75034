package contentfilter

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
)

// Filter is a PG-rated structural filter for long-form generated content
// such as bedtime stories. It is fully offline and independent of the guard
// model, so it still works when the classifier is unreachable.
type Filter struct {
	strictMode bool
	patterns   []*regexp.Regexp
}

// FilterResult is the outcome of filtering one piece of content.
type FilterResult struct {
	IsSafe     bool
	Violations []string
	Confidence float64
}

// prohibitedPatterns are lexical groups flagged for review: violence,
// horror, mild profanity, adult themes, controversial topics.
var prohibitedPatterns = []string{
	// Violence
	`\b(kill|murder|death|dead|die|dies|dying|blood|gore|violent|weapon|gun|knife|stab|shoot|attack)\b`,
	`\b(torture|abuse|hurt|harm|pain|suffer|wound|injure)\b`,

	// Horror / scary
	`\b(horror|scary|terrifying|nightmare|monster|demon|devil|evil|curse|haunted|zombie)\b`,
	`\b(scream|shriek|terror|frightening|creepy|sinister)\b`,

	// Mild profanity: flagged for review, not hard profanity
	`\b(damn|hell|crap|stupid|idiot|dumb|hate)\b`,

	// Adult themes
	`\b(drunk|alcohol|beer|wine|drugs|smoking|cigarette)\b`,
	`\b(kiss|romance|dating|boyfriend|girlfriend|love\s+interest)\b`,

	// Controversial
	`\b(politics|politician|election|vote|democrat|republican)\b`,
	`\b(religion|religious|god|jesus|allah|buddha|pray|prayer)\b`,
}

// PositiveThemes are encouraged story themes.
var PositiveThemes = []string{
	"adventure", "friendship", "discovery", "learning", "nature",
	"science", "creativity", "problem-solving", "teamwork", "kindness",
	"imagination", "exploration", "courage", "perseverance", "family",
	"animals", "space", "ocean", "forest",
}

// endingMarkers indicate a positive resolution near the end of a story.
var endingMarkers = []string{
	"happily", "smiled", "happy", "joy", "learned", "friends", "together", "home",
}

const (
	minStoryWords = 100
	maxStoryWords = 2000

	// confidenceStep is subtracted per violation, floored at zero.
	confidenceStep = 0.1

	// laxViolationLimit is how many violations non-strict mode tolerates
	// before marking content unsafe.
	laxViolationLimit = 2
)

// NewFilter creates a Filter. In strict mode (the default for anything
// child-facing) any violation makes content unsafe; non-strict mode
// tolerates up to two.
func NewFilter(strictMode bool) *Filter {
	patterns := make([]*regexp.Regexp, len(prohibitedPatterns))
	for i, p := range prohibitedPatterns {
		patterns[i] = regexp.MustCompile(`(?i)` + p)
	}
	return &Filter{strictMode: strictMode, patterns: patterns}
}

// FilterContent scans text against the prohibited lexical groups.
func (f *Filter) FilterContent(content string) FilterResult {
	if strings.TrimSpace(content) == "" {
		return FilterResult{IsSafe: true, Confidence: 1.0}
	}

	var violations []string
	for _, pattern := range f.patterns {
		seen := map[string]bool{}
		for _, match := range pattern.FindAllString(content, -1) {
			key := strings.ToLower(match)
			if seen[key] {
				continue
			}
			seen[key] = true
			violations = append(violations, fmt.Sprintf("found prohibited term: %q", match))
		}
	}

	return FilterResult{
		IsSafe:     f.isSafe(len(violations)),
		Violations: violations,
		Confidence: confidenceFor(len(violations)),
	}
}

// FilterStory applies FilterContent plus story-specific structural checks:
// word count within bounds and a positive resolution near the end.
func (f *Filter) FilterStory(story string) FilterResult {
	result := f.FilterContent(story)
	if !result.IsSafe {
		return result
	}

	var structural []string

	wordCount := len(strings.Fields(story))
	if wordCount < minStoryWords {
		structural = append(structural, fmt.Sprintf("story too short (< %d words)", minStoryWords))
	} else if wordCount > maxStoryWords {
		structural = append(structural, fmt.Sprintf("story too long (> %d words)", maxStoryWords))
	}

	if !hasPositiveEnding(story) {
		structural = append(structural, "story may not have a positive ending")
	}

	all := append(result.Violations, structural...)
	return FilterResult{
		IsSafe:     f.isSafe(len(all)),
		Violations: all,
		Confidence: result.Confidence,
	}
}

// hasPositiveEnding checks the final paragraph (or the last ~500 characters
// when the story has no paragraph breaks) for a resolution marker.
func hasPositiveEnding(story string) bool {
	var tail string
	if i := strings.LastIndex(story, "\n\n"); i >= 0 {
		tail = story[i+2:]
	} else if len(story) > 500 {
		tail = story[len(story)-500:]
	} else {
		tail = story
	}

	tail = strings.ToLower(tail)
	for _, marker := range endingMarkers {
		if strings.Contains(tail, marker) {
			return true
		}
	}
	return false
}

// SuggestImprovements maps violations to human-readable suggestions. Purely
// advisory: nothing downstream consumes these for the safety decision.
func (f *Filter) SuggestImprovements(result FilterResult) []string {
	var suggestions []string

	for _, violation := range result.Violations {
		lower := strings.ToLower(violation)
		switch {
		case strings.Contains(lower, "prohibited term"):
			term := "the term"
			if parts := strings.SplitN(violation, `"`, 3); len(parts) == 3 {
				term = parts[1]
			}
			suggestions = append(suggestions, fmt.Sprintf("Replace %q with a more positive alternative", term))
		case strings.Contains(lower, "too short"):
			suggestions = append(suggestions, "Expand the story with more descriptive details")
		case strings.Contains(lower, "too long"):
			suggestions = append(suggestions, "Consider condensing the story for bedtime reading")
		case strings.Contains(lower, "positive ending"):
			suggestions = append(suggestions, "Add a warm, happy conclusion to the story")
		}
	}

	if len(result.Violations) > 0 {
		suggestions = append(suggestions,
			"Consider incorporating themes like: "+strings.Join(PositiveThemes[:5], ", "))
	}

	return suggestions
}

// ValidateTheme reports whether a theme is appropriate. Open by default:
// themes are short, curated strings chosen by the system itself, so only a
// match against a prohibited pattern rejects one.
func (f *Filter) ValidateTheme(theme string) bool {
	lower := strings.ToLower(theme)
	for _, t := range PositiveThemes {
		if lower == t {
			return true
		}
	}

	for _, pattern := range f.patterns {
		if pattern.MatchString(theme) {
			return false
		}
	}
	return true
}

// RandomTheme returns a random encouraged theme.
func (f *Filter) RandomTheme() string {
	return PositiveThemes[rand.Intn(len(PositiveThemes))]
}

func (f *Filter) isSafe(violations int) bool {
	if violations == 0 {
		return true
	}
	return !f.strictMode && violations <= laxViolationLimit
}

func confidenceFor(violations int) float64 {
	c := 1.0 - float64(violations)*confidenceStep
	if c < 0 {
		return 0
	}
	return c
}
