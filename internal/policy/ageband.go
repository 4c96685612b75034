package policy

// AgeBand determines the active topic allowlist and content strictness.
type AgeBand string

const (
	BandUnder13 AgeBand = "under_13"
	BandTeen    AgeBand = "teen_13_17"
	BandAdult   AgeBand = "adult"
)

// validAgeBands is the set of accepted age band strings.
var validAgeBands = map[AgeBand]bool{
	BandUnder13: true, BandTeen: true, BandAdult: true,
}

// IsValidAgeBand returns true if the given band is known.
func IsValidAgeBand(b AgeBand) bool {
	return validAgeBands[b]
}

// allowlistTopics is the school-safe topic list for teens and adults.
var allowlistTopics = []string{
	"math",
	"animals",
	"space",
	"geography",
	"word games",
	"basic science (non-graphic)",
	"light history (non-graphic)",
	"jokes (non-bullying)",
	"homework help",
	"creative writing (age-appropriate)",
	"art and drawing",
	"music",
	"cooking (simple recipes)",
	"nature",
	"weather",
	"sports (non-violent)",
	"puzzles and riddles",
	"languages (basic phrases)",
	"computer basics",
	"environmental science",
}

// under13Topics is the stricter topic list for the youngest band.
var under13Topics = []string{
	"math",
	"animals",
	"space",
	"word games",
	"jokes (simple, clean)",
	"nature",
	"weather",
	"art and drawing",
	"music",
	"puzzles and riddles",
}

// adultExtraTopics extends the allowlist for the adult band. Safety bounds
// still apply; this widens topics, not categories.
var adultExtraTopics = []string{
	"advanced science",
	"world history",
	"current events (factual)",
}

// TopicsForAge returns the allowlisted topics for the given age band.
// Unknown bands fall back to the strictest list.
func TopicsForAge(band AgeBand) []string {
	switch band {
	case BandTeen:
		return append([]string(nil), allowlistTopics...)
	case BandAdult:
		out := append([]string(nil), allowlistTopics...)
		return append(out, adultExtraTopics...)
	default:
		return append([]string(nil), under13Topics...)
	}
}
