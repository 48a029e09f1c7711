package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config es la configuración completa de la app.
type Config struct {
	AppName string        `yaml:"app_name"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Reports ReportsConfig `yaml:"reports"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// StorageConfig elige el backend del snapshot.
// Con driver=file, PetsFile/AppointmentsFile relativos se resuelven contra DataDir.
type StorageConfig struct {
	Driver           string `yaml:"driver"`
	DataDir          string `yaml:"data_dir"`
	PetsFile         string `yaml:"pets_file"`
	AppointmentsFile string `yaml:"appointments_file"`
	DSN              string `yaml:"dsn"`
	SQLitePath       string `yaml:"sqlite_path"`
}

type ReportsConfig struct {
	UpcomingDays int `yaml:"upcoming_days"`
}

// Default devuelve la configuración sin archivo ni env.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load lee la configuración YAML desde path y completa defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv arma la configuración desde PETCARE_CONFIG (YAML, opcional) y
// luego aplica overrides por env: APP_NAME, LOG_LEVEL, LOG_FORMAT, STORAGE_DRIVER,
// DATA_DIR, PETS_FILE, APPOINTMENTS_FILE, DB_DSN, SQLITE_PATH, UPCOMING_DAYS.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("PETCARE_CONFIG")); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	setString(&cfg.AppName, "APP_NAME")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DataDir, "DATA_DIR")
	setString(&cfg.Storage.PetsFile, "PETS_FILE")
	setString(&cfg.Storage.AppointmentsFile, "APPOINTMENTS_FILE")
	setString(&cfg.Storage.DSN, "DB_DSN")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")

	if v := strings.TrimSpace(os.Getenv("UPCOMING_DAYS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("UPCOMING_DAYS: %w", err)
		}
		cfg.Reports.UpcomingDays = n
	}

	// DB_DSN sin driver explícito implica postgres
	if os.Getenv("STORAGE_DRIVER") == "" && os.Getenv("DB_DSN") != "" && cfg.Storage.Driver == DriverFile {
		cfg.Storage.Driver = DriverPostgres
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.AppName) == "" {
		c.AppName = "petcare"
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = "warn"
	}
	if strings.TrimSpace(c.Log.Format) == "" {
		c.Log.Format = "text"
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		c.Storage.DataDir = "."
	}
	if strings.TrimSpace(c.Storage.PetsFile) == "" {
		c.Storage.PetsFile = "pets.json"
	}
	if strings.TrimSpace(c.Storage.AppointmentsFile) == "" {
		c.Storage.AppointmentsFile = "appointments.json"
	}
	if strings.TrimSpace(c.Storage.SQLitePath) == "" {
		c.Storage.SQLitePath = "petcare.db"
	}
	if c.Reports.UpcomingDays <= 0 {
		c.Reports.UpcomingDays = 7
	}
}

// Validate revisa combinaciones que no tienen sentido.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// PetsPath devuelve la ruta final del archivo de mascotas.
func (s StorageConfig) PetsPath() string { return s.resolve(s.PetsFile) }

// AppointmentsPath devuelve la ruta final del archivo de citas.
func (s StorageConfig) AppointmentsPath() string { return s.resolve(s.AppointmentsFile) }

// SQLiteFile devuelve la ruta final de la base SQLite.
func (s StorageConfig) SQLiteFile() string { return s.resolve(s.SQLitePath) }

func (s StorageConfig) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.DataDir, p)
}

// LoadDotEnv carga variables desde un archivo .env si existe.
// No pisa variables ya definidas en el entorno.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}
