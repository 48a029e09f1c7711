package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PETCARE_CONFIG", "APP_NAME", "LOG_LEVEL", "LOG_FORMAT", "STORAGE_DRIVER", "DATA_DIR",
		"PETS_FILE", "APPOINTMENTS_FILE", "DB_DSN", "SQLITE_PATH", "UPCOMING_DAYS",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "petcare", cfg.AppName)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "pets.json", cfg.Storage.PetsPath())
	assert.Equal(t, "appointments.json", cfg.Storage.AppointmentsPath())
	assert.Equal(t, 7, cfg.Reports.UpcomingDays)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: clinic
log:
  level: debug
  format: json
storage:
  driver: sqlite
  data_dir: /var/lib/petcare
  sqlite_path: data.db
reports:
  upcoming_days: 14
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "clinic", cfg.AppName)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join("/var/lib/petcare", "data.db"), cfg.Storage.SQLiteFile())
	assert.Equal(t, filepath.Join("/var/lib/petcare", "pets.json"), cfg.Storage.PetsPath())
	assert.Equal(t, 14, cfg.Reports.UpcomingDays)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "Unknown field", content: "storage:\n  drivr: file\n"},
		{name: "Unknown driver", content: "storage:\n  driver: mongo\n"},
		{name: "Postgres without dsn", content: "storage:\n  driver: postgres\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PETS_FILE", "p.json")
	t.Setenv("UPCOMING_DAYS", "3")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "p.json"), cfg.Storage.PetsPath())
	assert.Equal(t, filepath.Join(dir, "appointments.json"), cfg.Storage.AppointmentsPath())
	assert.Equal(t, 3, cfg.Reports.UpcomingDays)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestFromEnv_DSNImpliesPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/petcare")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
}

func TestFromEnv_BadUpcomingDays(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPCOMING_DAYS", "week")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_ConfigFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: clinic\nreports:\n  upcoming_days: 10\n"), 0o644))
	t.Setenv("PETCARE_CONFIG", path)
	t.Setenv("APP_NAME", "override")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.AppName)
	assert.Equal(t, 10, cfg.Reports.UpcomingDays)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "PETCARE_TEST_DOTENV"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv(key))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
