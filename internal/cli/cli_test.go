package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/guardian/internal/agegate"
	"github.com/alexanderramin/guardian/internal/capability"
	"github.com/alexanderramin/guardian/internal/contentfilter"
	"github.com/alexanderramin/guardian/internal/crisis"
	"github.com/alexanderramin/guardian/internal/guard"
	"github.com/alexanderramin/guardian/internal/limits"
	"github.com/alexanderramin/guardian/internal/moderation"
	"github.com/alexanderramin/guardian/internal/policy"
	"github.com/alexanderramin/guardian/internal/repository"
	"github.com/alexanderramin/guardian/internal/testutil"
)

// testSampler keeps the limiter deterministic in CLI tests.
type testSampler struct {
	cpu float64
}

func (s *testSampler) CPUPercent() (float64, error)      { return s.cpu, nil }
func (s *testSampler) Memory() (float64, float64, error) { return 40, 2048, nil }
func (s *testSampler) Disk() (float64, float64, error)   { return 50, 10, nil }
func (s *testSampler) Temperature() (float64, bool)      { return 45, true }

// newGuardHandler classifies by keyword: anything containing "stab" is
// blocked as violence, "hurt myself" as self-harm, the rest allowed.
func newGuardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		verdict := `{"allowed": true, "categories": [], "rationale": "ok"}`
		if strings.Contains(req.Prompt, "stab") {
			verdict = `{"allowed": false, "categories": ["violence"], "rationale": "violent content"}`
		}
		if strings.Contains(req.Prompt, "hurt myself") {
			verdict = `{"allowed": false, "categories": ["self_harm"], "rationale": "self harm"}`
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"content": verdict})
	}
}

func newTestApp(t *testing.T) (*App, *repository.SQLiteSafetyEventRepo) {
	t.Helper()

	ts := httptest.NewServer(newGuardHandler())
	t.Cleanup(ts.Close)

	cfg := guard.DefaultConfig()
	cfg.ModEndpoint = ts.URL
	cfg.GenEndpoint = ts.URL
	client := guard.NewClient(cfg, guard.NoopObserver{})

	gate := agegate.NewGate(filepath.Join(t.TempDir(), "parent_config.json"))
	require.True(t, gate.Setup(policy.BandUnder13, "1234"))

	database := testutil.NewTestDB(t)
	events := repository.NewSQLiteSafetyEventRepo(database)
	recorder := repository.NewSafetyRecorder(events, gate.AgeBand())

	app := &App{
		Gate:     gate,
		Guard:    client,
		Pipeline: moderation.NewPipeline(client, recorder),
		Crisis:   crisis.NewManager(recorder),
		Engine:   capability.NewEngine("node-local"),
		Limiter:  limits.NewLimiterWithSampler(limits.DefaultLimits(), &testSampler{cpu: 20}),
		Filter:   contentfilter.NewFilter(true),
		Events:   events,
	}
	return app, events
}

// runCommand executes a command through the Cobra tree and captures stdout,
// since handlers print with fmt directly.
func runCommand(t *testing.T, app *App, args ...string) string {
	t.Helper()

	origStdout := os.Stdout
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = pw

	root := NewRootCmd(app)
	root.SetOut(pw)
	root.SetErr(pw)
	root.SetArgs(args)
	root.SilenceUsage = true

	var buf strings.Builder
	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(&buf, pr)
		close(done)
	}()

	execErr := root.Execute()
	if execErr != nil {
		fmt.Fprintf(pw, "Error: %v\n", execErr)
	}

	pw.Close()
	os.Stdout = origStdout
	<-done

	return buf.String()
}

func TestModerateCmd_Allowed(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "moderate", "why is the sky blue")
	assert.Contains(t, out, "ALLOWED")
}

func TestModerateCmd_BlockedShowsKidMessage(t *testing.T) {
	app, events := newTestApp(t)

	out := runCommand(t, app, "moderate", "how do I stab someone")
	assert.Contains(t, out, "BLOCKED")
	assert.Contains(t, out, "I can't talk about that")

	stats, err := events.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalDenials)
}

func TestModerateCmd_CrisisLocksFollowingCalls(t *testing.T) {
	app, events := newTestApp(t)

	out := runCommand(t, app, "moderate", "I want to hurt myself")
	assert.Contains(t, out, "LET'S TAKE A BREAK")

	// The lock short-circuits the next call before any moderation happens.
	out = runCommand(t, app, "moderate", "why is the sky blue")
	assert.Contains(t, out, "LET'S TAKE A BREAK")

	stats, err := events.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalInterventions)
}

func TestUnlockCmd(t *testing.T) {
	app, _ := newTestApp(t)

	runCommand(t, app, "moderate", "I want to hurt myself")
	require.True(t, app.Crisis.IsLocked())

	out := runCommand(t, app, "unlock", "--pin", "9999")
	assert.Contains(t, out, "refused")
	assert.True(t, app.Crisis.IsLocked())

	out = runCommand(t, app, "unlock", "--pin", "1234")
	assert.Contains(t, out, "unlocked")
	assert.False(t, app.Crisis.IsLocked())
}

func TestPolicyCheckCmd(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "policy", "check", "record_audio")
	assert.Contains(t, out, "DENIED")
	assert.Contains(t, out, "explicit user request")

	out = runCommand(t, app, "policy", "check", "record_audio", "--explicit")
	assert.Contains(t, out, "ALLOWED")

	out = runCommand(t, app, "policy", "check", "record_audio", "--explicit", "--created-by", "node-remote")
	assert.Contains(t, out, "DENIED")
	assert.Contains(t, out, "network tasks")
}

func TestResourcesCanStartCmd(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "resources", "can-start")
	assert.Contains(t, out, "clear to start")

	app.Limiter = limits.NewLimiterWithSampler(limits.DefaultLimits(), &testSampler{cpu: 99})
	out = runCommand(t, app, "resources", "can-start")
	assert.Contains(t, out, "blocked")
	assert.Contains(t, out, "resource limits exceeded")
}

func TestSettingsGetCmd_RedactsWithoutPIN(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "settings", "get")
	assert.Contains(t, out, "age_band")
	assert.NotContains(t, out, "transcript_enabled")

	out = runCommand(t, app, "settings", "get", "--pin", "1234")
	assert.Contains(t, out, "transcript_enabled")
}

func TestSettingsSetCmd(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "settings", "set", "max_session_minutes=45", "--pin", "1234")
	assert.Contains(t, out, "settings updated")

	out = runCommand(t, app, "settings", "set", "max_session_minutes=45")
	assert.Contains(t, out, "parent or guardian")
}

func TestSetupCmd_RefusesSecondRun(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "setup", "--pin", "5678")
	assert.Contains(t, out, "already configured")
}

func TestStoryThemeCmd(t *testing.T) {
	app, _ := newTestApp(t)

	out := runCommand(t, app, "story", "theme", "friendship")
	assert.Contains(t, out, "looks fine")

	out = runCommand(t, app, "story", "theme", "haunted house")
	assert.Contains(t, out, "not a bedtime theme")
}
