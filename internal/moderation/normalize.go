package moderation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// The four functions in this file are pure and never touch the network,
// which keeps them independently fuzzable.

// leetReplacer maps digit/symbol look-alikes back to letters. Applied only
// to classifier input, never to text shown to the user.
var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"@", "a",
	"!", "i",
	"$", "s",
	"+", "t",
)

var (
	zeroWidthRe  = regexp.MustCompile("[\u200b\u200c\u200d\ufeff]")
	separatorsRe = regexp.MustCompile(`[._-]+`)
)

// PII patterns: email, NANP phone, SSN, IPv4, street address.
var (
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe  = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	ssnRe    = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	ipv4Re   = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	streetRe = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z]+\s+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Circle|Cir|Plaza|Pl)\b`)
)

var piiPatterns = []*regexp.Regexp{emailRe, phoneRe, ssnRe, ipv4Re, streetRe}

// Normalize canonicalizes text for consistent moderation: Unicode NFKC,
// lowercase, zero-width characters stripped, whitespace collapsed.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ToLower(text)
	text = zeroWidthRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// DeObfuscate undoes common leet-speak substitutions and strips separator
// characters so "s3x" and "s.e.x" both reach the classifier as "sex".
func DeObfuscate(text string) string {
	text = leetReplacer.Replace(text)
	return separatorsRe.ReplaceAllString(text, "")
}

// DetectPII reports whether the text contains a PII-shaped substring.
func DetectPII(text string) bool {
	for _, p := range piiPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectNonEnglish flags likely non-English text using the ratio of ASCII
// code points to total length. This is a heuristic for default-deny, not a
// language detector.
func DetectNonEnglish(text string) bool {
	if len(text) == 0 {
		return false
	}
	ascii := 0
	runes := []rune(text)
	for _, r := range runes {
		if r < 128 {
			ascii++
		}
	}
	return float64(ascii)/float64(len(runes)) < 0.70
}
