package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/progress-tracker/internal/scoring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5, cfg.Scoring.SubjectCount)
	assert.Equal(t, scoring.DefaultScale, cfg.Scoring.Scale())
	assert.False(t, cfg.Scoring.ZeroMeansNotAttempted)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, cfg.HTTP.CORSOriginsOffline, cfg.CORSOrigins())
	assert.False(t, cfg.RequireAuth())
}

func TestLoad_OnlineMode(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
mode: online
http:
  cors_origins_online: ["https://school.example"]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://school.example"}, cfg.CORSOrigins())
	assert.True(t, cfg.RequireAuth())
	assert.Error(t, cfg.ValidateServe(), "online mode needs a secret")

	cfg.Auth.HMACSecret = "0123456789abcdef"
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoad_FileAndEnv(t *testing.T) {
	p := writeConfig(t, `
scoring:
  subject_count: 3
  endterm_mark: 100
log:
  format: console
`)
	t.Setenv("TRACKER_SCORING_SUBJECT_COUNT", "6")
	t.Setenv("TRACKER_HTTP_ADDR", ":9090")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Scoring.SubjectCount, "env overrides file")
	assert.Equal(t, 100, cfg.Scoring.EndtermMark)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero subjects", "scoring:\n  subject_count: 0\n"},
		{"zero quiz mark", "scoring:\n  quiz_mark: 0\n"},
		{"unknown mode", "mode: cloud\n"},
		{"bad driver", "archive:\n  enabled: true\n  db_driver: mysql\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestValidateServe(t *testing.T) {
	cfg := &Config{Archive: ArchiveConfig{Enabled: true}, Auth: AuthConfig{HMACSecret: "short"}}
	assert.Error(t, cfg.ValidateServe())

	cfg.Auth.HMACSecret = "0123456789abcdef"
	assert.NoError(t, cfg.ValidateServe())

	cfg = &Config{Mode: ModeOffline}
	assert.NoError(t, cfg.ValidateServe(), "no secret needed offline without the archive")

	cfg = &Config{Mode: ModeOnline, Auth: AuthConfig{HMACSecret: "short"}}
	assert.Error(t, cfg.ValidateServe())
}
