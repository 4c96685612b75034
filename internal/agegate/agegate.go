package agegate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alexanderramin/guardian/internal/policy"
)

const (
	// MaxPINAttempts is the number of consecutive failures before lockout.
	MaxPINAttempts = 3

	// LockoutDuration is how long PIN entry stays locked after too many
	// failed attempts.
	LockoutDuration = 15 * time.Minute

	// MinPINLength is the minimum accepted PIN length.
	MinPINLength = 4
)

// ParentConfig is the persisted parental configuration. The gate is its
// single owner: age band and PIN hash have no other source of truth.
type ParentConfig struct {
	AgeBand            policy.AgeBand `json:"age_band"`
	PINHash            string         `json:"pin_hash"`
	CreatedAt          time.Time      `json:"created_at"`
	LastVerified       *time.Time     `json:"last_verified,omitempty"`
	TranscriptEnabled  bool           `json:"transcript_enabled"`
	SafetyStatsEnabled bool           `json:"safety_stats_enabled"`
	MaxSessionMinutes  int            `json:"max_session_minutes"`
	DailyLimitMinutes  int            `json:"daily_limit_minutes"`
}

// Gate manages age verification and parental controls backed by a single
// owner-only JSON file.
type Gate struct {
	mu             sync.Mutex
	path           string
	config         *ParentConfig
	failedAttempts int
	lockoutUntil   time.Time

	now func() time.Time
}

// NewGate creates a Gate persisting to the given file path. An existing
// config file is loaded; a corrupt one is treated as unconfigured rather
// than trusted.
func NewGate(path string) *Gate {
	g := &Gate{path: path, now: time.Now}
	g.load()
	return g
}

func (g *Gate) load() {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return
	}
	var cfg ParentConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}
	g.config = &cfg
}

// save persists the config with owner-only permissions. The chmod is
// best-effort hardening, not the primary control: failure is logged and
// ignored.
func (g *Gate) save() error {
	if g.config == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(g.config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling parent config: %w", err)
	}
	if err := os.WriteFile(g.path, data, 0o600); err != nil {
		return fmt.Errorf("writing parent config: %w", err)
	}
	if err := os.Chmod(g.path, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not restrict parent config permissions: %v\n", err)
	}
	return nil
}

// IsConfigured reports whether setup has completed.
func (g *Gate) IsConfigured() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.config != nil
}

// NeedsSetup reports whether initial setup is still required.
func (g *Gate) NeedsSetup() bool {
	return !g.IsConfigured()
}

// Setup creates the parent config with the given age band and PIN.
// Calling it again overwrites: callers must gate this behind NeedsSetup.
func (g *Gate) Setup(band policy.AgeBand, pin string) bool {
	if len(pin) < MinPINLength || !policy.IsValidAgeBand(band) {
		return false
	}

	hash, err := hashPIN(pin)
	if err != nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.config = &ParentConfig{
		AgeBand:            band,
		PINHash:            hash,
		CreatedAt:          g.now().UTC(),
		SafetyStatsEnabled: true,
		MaxSessionMinutes:  30,
		DailyLimitMinutes:  120,
	}
	return g.save() == nil
}

// VerifyPIN checks the PIN against the stored hash. The lockout window is
// evaluated before any hash comparison: while locked out, the correct PIN
// fails exactly like a wrong one. On success the failure counter resets and
// last_verified is persisted.
func (g *Gate) VerifyPIN(pin string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.verifyPINLocked(pin)
}

func (g *Gate) verifyPINLocked(pin string) bool {
	if g.config == nil {
		return false
	}
	if g.now().Before(g.lockoutUntil) {
		return false
	}

	if !verifyHash(g.config.PINHash, pin) {
		g.failedAttempts++
		if g.failedAttempts >= MaxPINAttempts {
			g.lockoutUntil = g.now().Add(LockoutDuration)
		}
		return false
	}

	g.failedAttempts = 0
	verified := g.now().UTC()
	g.config.LastVerified = &verified
	if err := g.save(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not persist parent config: %v\n", err)
	}
	return true
}

// ChangePIN replaces the PIN after verifying the current one.
func (g *Gate) ChangePIN(currentPIN, newPIN string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.verifyPINLocked(currentPIN) {
		return false
	}
	if len(newPIN) < MinPINLength {
		return false
	}

	hash, err := hashPIN(newPIN)
	if err != nil {
		return false
	}
	g.config.PINHash = hash
	return g.save() == nil
}

// AgeBand returns the configured age band, defaulting to the strictest.
func (g *Gate) AgeBand() policy.AgeBand {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.config != nil {
		return g.config.AgeBand
	}
	return policy.BandUnder13
}

// GetSettings returns the current settings. Sensitive fields (transcript
// flag, timestamps) appear only when pinVerified is true.
func (g *Gate) GetSettings(pinVerified bool) map[string]any {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.config == nil {
		return map[string]any{"configured": false}
	}

	settings := map[string]any{
		"configured":           true,
		"age_band":             string(g.config.AgeBand),
		"safety_stats_enabled": g.config.SafetyStatsEnabled,
		"max_session_minutes":  g.config.MaxSessionMinutes,
		"daily_limit_minutes":  g.config.DailyLimitMinutes,
	}

	if pinVerified {
		settings["transcript_enabled"] = g.config.TranscriptEnabled
		settings["created_at"] = g.config.CreatedAt
		settings["last_verified"] = g.config.LastVerified
	}

	return settings
}

// UpdateSettings applies the given fields after PIN verification. Unknown
// fields and mistyped values are ignored, not errored.
func (g *Gate) UpdateSettings(pin string, fields map[string]any) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.verifyPINLocked(pin) {
		return false
	}

	for key, value := range fields {
		switch key {
		case "age_band":
			if s, ok := value.(string); ok && policy.IsValidAgeBand(policy.AgeBand(s)) {
				g.config.AgeBand = policy.AgeBand(s)
			}
		case "transcript_enabled":
			if b, ok := value.(bool); ok {
				g.config.TranscriptEnabled = b
			}
		case "safety_stats_enabled":
			if b, ok := value.(bool); ok {
				g.config.SafetyStatsEnabled = b
			}
		case "max_session_minutes":
			if n, ok := toInt(value); ok && n > 0 {
				g.config.MaxSessionMinutes = n
			}
		case "daily_limit_minutes":
			if n, ok := toInt(value); ok && n > 0 {
				g.config.DailyLimitMinutes = n
			}
		}
	}

	return g.save() == nil
}

// IsLockedOut reports whether PIN entry is currently locked.
func (g *Gate) IsLockedOut() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.now().Before(g.lockoutUntil)
}

// LockoutRemaining returns the time left in the lockout window, or zero.
func (g *Gate) LockoutRemaining() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := g.lockoutUntil.Sub(g.now()); remaining > 0 {
		return remaining
	}
	return 0
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
