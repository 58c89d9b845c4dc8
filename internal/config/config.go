package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Data sources the binaries can read invoices and branding from.
const (
	SourceAPI = "api"
	SourceDB  = "db"
)

// Snapshot rasterizers.
const (
	RasterizerChrome = "chrome"
	RasterizerCanvas = "canvas"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"PayFlow"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DataSource string `envconfig:"DATA_SOURCE" default:"api"`

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"payflow"`
	}

	Backend struct {
		BaseURL string        `envconfig:"BACKEND_BASE_URL" default:"http://localhost:8000/routes"`
		Token   string        `envconfig:"BACKEND_TOKEN"`
		Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	}

	Auth struct {
		Secret string `envconfig:"AUTH_JWT_SECRET"`
		Issuer string `envconfig:"AUTH_JWT_ISSUER"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Render struct {
		Locale          string        `envconfig:"RENDER_LOCALE" default:"en-US"`
		Rasterizer      string        `envconfig:"SNAPSHOT_RASTERIZER" default:"canvas"`
		ChromePath      string        `envconfig:"CHROME_PATH"`
		ChromeNoSandbox bool          `envconfig:"CHROME_NO_SANDBOX" default:"false"`
		SnapshotTimeout time.Duration `envconfig:"SNAPSHOT_TIMEOUT" default:"30s"`
	}

	// TUI acts for a single account; UserID scopes database reads. The
	// backend source scopes by BACKEND_TOKEN instead.
	TUI struct {
		UserID    string `envconfig:"PAYFLOW_USER_ID"`
		OutputDir string `envconfig:"PAYFLOW_OUTPUT_DIR" default:"./invoices"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourceAPI, SourceDB:
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource)
	}

	switch c.Render.Rasterizer {
	case RasterizerChrome, RasterizerCanvas:
	default:
		return fmt.Errorf("unknown SNAPSHOT_RASTERIZER %q", c.Render.Rasterizer)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.DataSource = strings.ToLower(cfg.DataSource)
	cfg.Render.Rasterizer = strings.ToLower(cfg.Render.Rasterizer)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
