package policy

// Fixed user-facing strings. Returned as data, never computed, so the UI
// layer cannot accidentally echo classifier output to a child.

// KidFriendlyBlockMsg is shown whenever content is refused.
const KidFriendlyBlockMsg = "🌟 I can't talk about that. Let's try a different topic like " +
	"animals, space, or math! What would you like to learn about?"

// ParentNeededMsg is shown when a settings change requires a verified parent.
const ParentNeededMsg = "🔒 A parent or guardian needs to help change these settings."

// NonEnglishMsg is shown when non-English input is refused.
const NonEnglishMsg = "🌍 I can only chat in English about school topics right now. " +
	"What would you like to learn about in English?"

// CrisisCard is the fixed intervention card shown during a crisis lockout.
type CrisisCard struct {
	Title      string
	Message    string
	Resources  []string
	ParentNote string
	Lockout    bool
}

// NewCrisisCard returns the fixed crisis intervention card. The caller gets
// a fresh copy each time so the literals cannot be mutated in place.
func NewCrisisCard() CrisisCard {
	return CrisisCard{
		Title: "Let's Take a Break",
		Message: "Sometimes we all need help, and that's okay. " +
			"Please talk to a trusted adult like a parent, teacher, or counselor.",
		Resources: []string{
			"💙 Talk to a parent or guardian",
			"📚 Talk to a teacher you trust",
			"🏫 Visit your school counselor",
			"📞 Kids Help Phone: 1-800-668-5786 (Canada)",
			"📞 Childline: 0800 1111 (UK)",
			"📞 Kids Helpline: 1800 55 1800 (Australia)",
			"📞 988 Suicide & Crisis Lifeline (US)",
		},
		ParentNote: "This message appears when concerning content is detected. " +
			"Please check in with your child and consider seeking appropriate support.",
		Lockout: true,
	}
}
