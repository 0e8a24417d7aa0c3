package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Payroll    PayrollConfig    `yaml:"payroll"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// HTTPConfig contains API server settings
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	AllowOrigins string        `yaml:"allow_origins"` // comma separated
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres, sqlite
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// AuthConfig contains token settings
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
	Issuer     string        `yaml:"issuer"`
	TOTPIssuer string        `yaml:"totp_issuer"`
}

// AttendanceConfig contains clock-in rules. Clock times are "HH:MM" in Timezone.
type AttendanceConfig struct {
	Timezone       string `yaml:"timezone"`
	MorningStart   string `yaml:"morning_start"`
	AfternoonStart string `yaml:"afternoon_start"`
	SessionCutoff  string `yaml:"session_cutoff"`
	GraceMinutes   int    `yaml:"grace_minutes"`
	RequireSelfie  bool   `yaml:"require_selfie"`
}

// PayrollConfig contains deduction tables. Money is in cents, rates in basis points.
type PayrollConfig struct {
	Currency      string             `yaml:"currency"`
	Workers       int                `yaml:"workers"`
	Contributions []ContributionRule `yaml:"contributions"`
	TaxBrackets   []TaxBracket       `yaml:"tax_brackets"`
}

// ContributionRule describes one government contribution (employee share).
type ContributionRule struct {
	Name     string   `yaml:"name"`
	Kind     string   `yaml:"kind"` // rate, bracket
	RateBP   int64    `yaml:"rate_bp"`
	MinBase  int64    `yaml:"min_base"`
	MaxBase  int64    `yaml:"max_base"`
	Step     int64    `yaml:"step"`
	Brackets []Bucket `yaml:"brackets"`
}

// Bucket is one row of a bracket contribution table. UpTo 0 means unbounded.
type Bucket struct {
	UpTo   int64 `yaml:"up_to"`
	Amount int64 `yaml:"amount"`
	RateBP int64 `yaml:"rate_bp"`
}

// TaxBracket is one row of a progressive withholding table.
type TaxBracket struct {
	Over    int64 `yaml:"over"`
	BaseTax int64 `yaml:"base_tax"`
	RateBP  int64 `yaml:"rate_bp"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Load reads .env (if present), the YAML file at configPath (if non-empty) and
// environment overrides, in that order.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.HTTP.Addr, "EMS_HTTP_ADDR")
	set(&c.HTTP.AllowOrigins, "ALLOW_ORIGINS")
	set(&c.Database.Driver, "DATABASE_DRIVER")
	set(&c.Database.URL, "DATABASE_URL")
	set(&c.Auth.JWTSecret, "JWT_SECRET")
	set(&c.Logging.Level, "LOG_LEVEL")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("jwt secret must be at least 16 characters")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}

	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid attendance timezone: %w", err)
	}
	for name, v := range map[string]string{
		"morning_start":   c.Attendance.MorningStart,
		"afternoon_start": c.Attendance.AfternoonStart,
		"session_cutoff":  c.Attendance.SessionCutoff,
	} {
		if _, err := ParseClock(v); err != nil {
			return fmt.Errorf("invalid attendance %s: %w", name, err)
		}
	}
	if c.Attendance.GraceMinutes < 0 {
		return fmt.Errorf("grace minutes must not be negative")
	}

	if c.Payroll.Workers <= 0 {
		return fmt.Errorf("payroll workers must be positive")
	}
	for _, r := range c.Payroll.Contributions {
		switch r.Kind {
		case "rate":
		case "bracket":
			if len(r.Brackets) == 0 {
				return fmt.Errorf("contribution %s has no brackets", r.Name)
			}
		default:
			return fmt.Errorf("contribution %s has unknown kind %q", r.Name, r.Kind)
		}
	}
	for i := 1; i < len(c.Payroll.TaxBrackets); i++ {
		if c.Payroll.TaxBrackets[i].Over <= c.Payroll.TaxBrackets[i-1].Over {
			return fmt.Errorf("tax brackets must be sorted ascending by over")
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging format: %q", c.Logging.Format)
	}
	return nil
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Location returns the attendance timezone. Validate guarantees it loads.
func (a AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			AllowOrigins: "http://127.0.0.1:5173,http://localhost:5173,http://localhost:3000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			MaxOpenConns:    20,
			MaxIdleConns:    10,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{
			TokenTTL:   24 * time.Hour,
			Issuer:     "ems",
			TOTPIssuer: "EMS",
		},
		Attendance: AttendanceConfig{
			Timezone:       "Asia/Manila",
			MorningStart:   "08:00",
			AfternoonStart: "13:00",
			SessionCutoff:  "12:00",
			GraceMinutes:   15,
		},
		Payroll: PayrollConfig{
			Currency:      "PHP",
			Workers:       4,
			Contributions: DefaultContributions(),
			TaxBrackets:   DefaultTaxBrackets(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultContributions returns the employee-share contribution rules.
func DefaultContributions() []ContributionRule {
	return []ContributionRule{
		{Name: "sss", Kind: "rate", RateBP: 500, MinBase: 500000, MaxBase: 3500000, Step: 50000},
		{Name: "philhealth", Kind: "rate", RateBP: 250, MinBase: 1000000, MaxBase: 10000000},
		{Name: "pagibig", Kind: "bracket", MaxBase: 1000000, Brackets: []Bucket{
			{UpTo: 150000, RateBP: 100},
			{UpTo: 0, RateBP: 200},
		}},
	}
}

// DefaultTaxBrackets returns a monthly progressive withholding table.
func DefaultTaxBrackets() []TaxBracket {
	return []TaxBracket{
		{Over: 0, BaseTax: 0, RateBP: 0},
		{Over: 2083300, BaseTax: 0, RateBP: 1500},
		{Over: 3333300, BaseTax: 187500, RateBP: 2000},
		{Over: 6666700, BaseTax: 854180, RateBP: 2500},
		{Over: 16666700, BaseTax: 3354180, RateBP: 3000},
		{Over: 66666700, BaseTax: 18354180, RateBP: 3500},
	}
}
