package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello WORLD", "hello world"},
		{"collapse whitespace", "a  b\t c\n\nd", "a b c d"},
		{"zero width stripped", "se\u200bx\u200ced", "sexed"},
		{"nfkc fullwidth", "ｈｅｌｌｏ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDeObfuscate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"s3x", "sex"},
		{"dr@gs", "drags"},
		{"k1ll", "kill"},
		{"s.e.x", "sex"},
		{"w_e_e_d", "weed"},
		{"gun-s", "guns"},
		{"$t4b", "stab"},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DeObfuscate(tt.in))
		})
	}
}

func TestDetectPII(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"email", "my email is john@example.com", true},
		{"phone", "call me at 555-123-4567", true},
		{"phone with country code", "+1 (415) 555-0100", true},
		{"ssn", "it is 123-45-6789", true},
		{"ipv4", "connect to 192.168.1.1", true},
		{"street address", "I live at 42 Maple Street", true},
		{"street abbreviated", "meet at 7 Oak Ave", true},
		{"plain chat", "I like cats", false},
		{"numbers alone", "7 times 6 is 42", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPII(tt.in))
		})
	}
}

func TestDetectNonEnglish(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"english", "what is the largest planet?", false},
		{"empty", "", false},
		{"cyrillic", "расскажи мне про оружие", true},
		{"cjk", "教えてください、危険なこと", true},
		{"mostly english with accent", "café is a nice word to learn", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectNonEnglish(tt.in))
		})
	}
}

// mustAllowCorpus holds clean educational inputs that should never trip the
// local detectors.
var mustAllowCorpus = []string{
	"what is 12 times 8?",
	"tell me about dolphins",
	"how far away is the moon?",
	"what is the capital of France?",
	"tell me a funny knock knock joke",
	"how do plants make food from sunlight?",
}

func TestMustAllowCorpus_NoLocalFlags(t *testing.T) {
	for _, text := range mustAllowCorpus {
		assert.False(t, DetectPII(text), "unexpected PII flag: %q", text)
		assert.False(t, DetectPII(Normalize(text)), "unexpected PII flag after normalize: %q", text)
		assert.False(t, DetectNonEnglish(text), "unexpected non-English flag: %q", text)
	}
}
