package agegate

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/guardian/internal/policy"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	return NewGate(filepath.Join(t.TempDir(), "parent_config.json"))
}

func TestGate_Setup(t *testing.T) {
	g := newTestGate(t)
	assert.True(t, g.NeedsSetup())

	tests := []struct {
		name string
		band policy.AgeBand
		pin  string
		want bool
	}{
		{"valid", policy.BandUnder13, "1234", true},
		{"pin too short", policy.BandUnder13, "123", false},
		{"empty pin", policy.BandUnder13, "", false},
		{"unknown band", policy.AgeBand("toddler"), "1234", false},
		{"longer pin", policy.BandTeen, "correct horse battery", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGate(t)
			assert.Equal(t, tt.want, g.Setup(tt.band, tt.pin))
			assert.Equal(t, tt.want, g.IsConfigured())
		})
	}
}

func TestGate_SetupPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parent_config.json")

	g := NewGate(path)
	require.True(t, g.Setup(policy.BandTeen, "9876"))

	// A fresh gate over the same file sees the configuration.
	g2 := NewGate(path)
	assert.True(t, g2.IsConfigured())
	assert.Equal(t, policy.BandTeen, g2.AgeBand())
	assert.True(t, g2.VerifyPIN("9876"))
}

func TestGate_ConfigFileOwnerOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes not meaningful on windows")
	}

	path := filepath.Join(t.TempDir(), "parent_config.json")
	g := NewGate(path)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestGate_CorruptConfigTreatedAsUnconfigured(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parent_config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	g := NewGate(path)
	assert.True(t, g.NeedsSetup())
	assert.Equal(t, policy.BandUnder13, g.AgeBand(), "unconfigured gate defaults to strictest band")
}

func TestGate_VerifyPIN(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	assert.True(t, g.VerifyPIN("1234"))
	assert.False(t, g.VerifyPIN("4321"))
	assert.False(t, g.VerifyPIN(""))
}

func TestGate_VerifyPIN_Unconfigured(t *testing.T) {
	g := newTestGate(t)
	assert.False(t, g.VerifyPIN("1234"))
}

func TestGate_LockoutAfterMaxAttempts(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	current := time.Now()
	g.now = func() time.Time { return current }

	for i := 0; i < MaxPINAttempts; i++ {
		assert.False(t, g.VerifyPIN("0000"))
	}
	assert.True(t, g.IsLockedOut())

	// The correct PIN fails while locked out; lockout is evaluated before
	// the hash is ever compared.
	assert.False(t, g.VerifyPIN("1234"))
	assert.Greater(t, g.LockoutRemaining(), time.Duration(0))
	assert.LessOrEqual(t, g.LockoutRemaining(), LockoutDuration)

	// After the window elapses, the correct PIN succeeds again.
	current = current.Add(LockoutDuration + time.Second)
	assert.False(t, g.IsLockedOut())
	assert.True(t, g.VerifyPIN("1234"))
	assert.Equal(t, time.Duration(0), g.LockoutRemaining())
}

func TestGate_SuccessResetsFailureCounter(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	// Two failures, then a success: the counter starts over.
	assert.False(t, g.VerifyPIN("0000"))
	assert.False(t, g.VerifyPIN("0000"))
	assert.True(t, g.VerifyPIN("1234"))

	assert.False(t, g.VerifyPIN("0000"))
	assert.False(t, g.VerifyPIN("0000"))
	assert.False(t, g.IsLockedOut())
}

func TestGate_ChangePIN(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	assert.False(t, g.ChangePIN("wrong", "5678"))
	assert.False(t, g.ChangePIN("1234", "99"), "new PIN must meet minimum length")
	assert.True(t, g.ChangePIN("1234", "5678"))

	assert.False(t, g.VerifyPIN("1234"))
	assert.True(t, g.VerifyPIN("5678"))
}

func TestGate_GetSettings_RedactsWithoutPIN(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandTeen, "1234"))

	basic := g.GetSettings(false)
	assert.Equal(t, true, basic["configured"])
	assert.Equal(t, "teen_13_17", basic["age_band"])
	assert.NotContains(t, basic, "transcript_enabled")
	assert.NotContains(t, basic, "created_at")
	assert.NotContains(t, basic, "last_verified")

	full := g.GetSettings(true)
	assert.Contains(t, full, "transcript_enabled")
	assert.Contains(t, full, "created_at")
}

func TestGate_GetSettings_Unconfigured(t *testing.T) {
	g := newTestGate(t)
	assert.Equal(t, map[string]any{"configured": false}, g.GetSettings(false))
}

func TestGate_UpdateSettings(t *testing.T) {
	g := newTestGate(t)
	require.True(t, g.Setup(policy.BandUnder13, "1234"))

	assert.False(t, g.UpdateSettings("wrong", map[string]any{"transcript_enabled": true}))

	ok := g.UpdateSettings("1234", map[string]any{
		"transcript_enabled":  true,
		"max_session_minutes": 45,
		"age_band":            "teen_13_17",
		"favorite_color":      "blue", // unknown: ignored, not errored
		"daily_limit_minutes": "lots", // mistyped: ignored
	})
	require.True(t, ok)

	settings := g.GetSettings(true)
	assert.Equal(t, true, settings["transcript_enabled"])
	assert.Equal(t, 45, settings["max_session_minutes"])
	assert.Equal(t, "teen_13_17", settings["age_band"])
	assert.Equal(t, 120, settings["daily_limit_minutes"], "mistyped value leaves default in place")
}

func TestHash_Argon2idRoundTrip(t *testing.T) {
	h, err := hashPIN("1234")
	require.NoError(t, err)
	assert.Contains(t, h, "$argon2id$")

	assert.True(t, verifyHash(h, "1234"))
	assert.False(t, verifyHash(h, "1235"))
}

func TestHash_PBKDF2FallbackRoundTrip(t *testing.T) {
	h, err := hashPINPBKDF2("1234")
	require.NoError(t, err)
	assert.Contains(t, h, "pbkdf2$sha256$")

	assert.True(t, verifyHash(h, "1234"))
	assert.False(t, verifyHash(h, "9999"))
}

func TestHash_SaltsDiffer(t *testing.T) {
	h1, err := hashPIN("1234")
	require.NoError(t, err)
	h2, err := hashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHash_GarbageEncodingFails(t *testing.T) {
	assert.False(t, verifyHash("", "1234"))
	assert.False(t, verifyHash("plaintext:1234", "1234"))
	assert.False(t, verifyHash("$argon2id$bogus", "1234"))
}
