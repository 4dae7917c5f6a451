package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 2, cfg.Deadline.LeadDays)
	assert.Equal(t, "Asia/Kolkata", cfg.Deadline.Location().String())
	assert.Equal(t, 5*time.Minute, cfg.Extensions.SweepInterval)
	assert.Equal(t, NotifyDriverLog, cfg.Notifications.Driver)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DEADLINE_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NOTIFY_DRIVER", "pigeon")

	_, err := Load()
	require.Error(t, err)
}

func TestParseDurationAllowsDisabling(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseDuration("0", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("garbage", time.Minute))
	assert.Equal(t, 30*time.Second, parseDuration("30s", time.Minute))
}

func TestDeadlineLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, DeadlineConfig{}.Location())
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a:1", "b:2"}, splitAndTrim(" a:1 , ,b:2"))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
