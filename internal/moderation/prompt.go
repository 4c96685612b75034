package moderation

import (
	"strings"

	"github.com/alexanderramin/guardian/internal/policy"
)

// classificationPrompt builds the deterministic moderation prompt: fixed
// preamble, the closed category list, the age band's allowlist, and the
// de-obfuscated text. The raw text never appears here so leet-speak cannot
// slip an unclassified token past the guard.
func classificationPrompt(deobfuscated string, band policy.AgeBand) string {
	var b strings.Builder

	b.WriteString("System: You are a strict content-safety classifier for a children's app.\n")
	b.WriteString("Label the USER text with zero or more of these categories:\n[")
	for i, c := range policy.AllCategories {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(c))
	}
	b.WriteString("]\n")
	b.WriteString("Return strict JSON exactly as:\n")
	b.WriteString(`{"allowed": true|false, "categories": [...], "rationale": "<short reason>"}`)
	b.WriteString("\nIf the text is outside these allow-list topics, set allowed=false: [")
	b.WriteString(strings.Join(policy.TopicsForAge(band), ", "))
	b.WriteString("]\nOnly reply with that JSON. No extra text.\nUSER: ")
	b.WriteString(deobfuscated)

	return b.String()
}

// rewritePrompt builds the single-attempt safe rewrite prompt, constrained
// to redirect toward the band's top allowlisted topics in under 50 words.
// The original request text is deliberately not included.
func rewritePrompt(band policy.AgeBand) string {
	topics := policy.TopicsForAge(band)
	if len(topics) > 5 {
		topics = topics[:5]
	}

	var b strings.Builder
	b.WriteString("System: You are a friendly helper for kids.\n")
	b.WriteString("The user asked something I can't help with. Please give a brief, friendly response that:\n")
	b.WriteString("1. Redirects to one of these safe topics: ")
	b.WriteString(strings.Join(topics, ", "))
	b.WriteString("\n2. Stays positive and educational\n")
	b.WriteString("3. Is under 50 words\n\n")
	b.WriteString("Original request summary: Someone asked about something outside our topics.\n")
	b.WriteString("Please suggest learning about one of the safe topics instead.")

	return b.String()
}
