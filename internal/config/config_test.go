package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Store:  StoreConfig{DataPath: "/tmp/creatorhub"},
		Auth:   AuthConfig{SessionDuration: 2232 * time.Hour},
		Jobs: JobsConfig{
			SyncInterval:  time.Hour,
			SweepInterval: 6 * time.Hour,
		},
	}
}

func TestValidate_AcceptsValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_RejectsBadEnvironment(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "qa"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsEmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.DataPath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveIntervals(t *testing.T) {
	cfg := validConfig()
	cfg.Jobs.SyncInterval = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Jobs.SweepInterval = -time.Hour
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Auth.SessionDuration = 0
	assert.Error(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	abs, err := expandPath("/var/lib/hub", "")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/hub", abs)

	def, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", def)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	tilde, err := expandPath("~/hub", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "hub"), tilde)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"https://a.test", "https://b.test"},
		splitOrigins(" https://a.test, https://b.test ,"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nHUB_TEST_KEY=from-file\nHUB_TEST_QUOTED=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("HUB_TEST_PRESET", "preset")
	require.NoError(t, os.WriteFile(path, []byte(content+"HUB_TEST_PRESET=overridden\n"), 0o600))

	require.NoError(t, loadEnvFile(path))
	defer os.Unsetenv("HUB_TEST_KEY")
	defer os.Unsetenv("HUB_TEST_QUOTED")

	assert.Equal(t, "from-file", os.Getenv("HUB_TEST_KEY"))
	assert.Equal(t, "quoted", os.Getenv("HUB_TEST_QUOTED"))
	// Existing environment variables win over the file.
	assert.Equal(t, "preset", os.Getenv("HUB_TEST_PRESET"))
}
