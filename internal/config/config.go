package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects which providers a run pulls from.
type Mode string

const (
	// ModeAuto uses Google plus Todoist when a Todoist token is set.
	ModeAuto    Mode = "auto"
	ModeGoogle  Mode = "google"
	ModeTodoist Mode = "todoist"
	ModeAll     Mode = "all"
)

// Config holds application configuration
type Config struct {
	TimeZone              string
	Mode                  Mode
	IgnoredLists          []string
	TodoistAPIToken       string
	GoogleCredentialsFile string
	GoogleTokenFile       string
	ServerPort            string
	FrontendURL           string
	IndentStep            int
	MaxResults            int
	DebugMode             bool
	OTELEnabled           bool
	OTELEndpoint          string
}

// FileConfig is the optional YAML overlay; environment variables win
// over file values.
type FileConfig struct {
	// TimeZone is the IANA zone all dates are computed in (e.g. "Europe/Madrid").
	TimeZone string `yaml:"timezone"`
	// Mode picks the providers: auto, google, todoist or all.
	Mode string `yaml:"mode"`
	// IgnoredLists are list/calendar/project names that are never fetched.
	IgnoredLists []string `yaml:"ignored_lists"`
	// TodoistAPIToken enables the Todoist source when set.
	TodoistAPIToken       string `yaml:"todoist_api_token"`
	GoogleCredentialsFile string `yaml:"google_credentials_file"`
	GoogleTokenFile       string `yaml:"google_token_file"`
	ServerPort            string `yaml:"server_port"`
	FrontendURL           string `yaml:"frontend_url"`
	// IndentStep is the number of spaces per tree level in text output.
	IndentStep int `yaml:"indent_step"`
	// MaxResults caps the page size requested from providers.
	MaxResults int `yaml:"max_results"`
}

var validModes = map[Mode]bool{
	ModeAuto:    true,
	ModeGoogle:  true,
	ModeTodoist: true,
	ModeAll:     true,
}

// Load reads the optional YAML file named by PLANNED_CONFIG_FILE, then
// applies environment variables on top.
func Load() (*Config, error) {
	cfg := &Config{
		TimeZone:              "UTC",
		Mode:                  ModeAuto,
		GoogleCredentialsFile: "credentials.json",
		GoogleTokenFile:       "token.json",
		ServerPort:            "8080",
		FrontendURL:           "http://localhost:3000",
		IndentStep:            2,
		MaxResults:            100,
	}

	if path := os.Getenv("PLANNED_CONFIG_FILE"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.TimeZone = getEnv("TIME_ZONE", cfg.TimeZone)
	cfg.Mode = Mode(getEnv("PLANNED_MODE", string(cfg.Mode)))
	if raw := os.Getenv("IGNORED_LISTS"); raw != "" {
		cfg.IgnoredLists = splitList(raw)
	}
	cfg.TodoistAPIToken = getEnv("TODOIST_API_TOKEN", cfg.TodoistAPIToken)
	cfg.GoogleCredentialsFile = getEnv("GOOGLE_CREDENTIALS_FILE", cfg.GoogleCredentialsFile)
	cfg.GoogleTokenFile = getEnv("GOOGLE_TOKEN_FILE", cfg.GoogleTokenFile)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.IndentStep = getEnvInt("INDENT_STEP", cfg.IndentStep)
	cfg.MaxResults = getEnvInt("MAX_RESULTS", cfg.MaxResults)
	cfg.DebugMode = getEnvBool("DEBUG_MODE", cfg.DebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if !validModes[cfg.Mode] {
		return nil, fmt.Errorf("PLANNED_MODE %q is not one of auto, google, todoist, all", cfg.Mode)
	}
	if cfg.IndentStep < 0 {
		return nil, fmt.Errorf("INDENT_STEP must be >= 0, got %d", cfg.IndentStep)
	}
	if cfg.MaxResults < 1 {
		return nil, fmt.Errorf("MAX_RESULTS must be >= 1, got %d", cfg.MaxResults)
	}

	return cfg, nil
}

// IsIgnored reports whether a list name is excluded by configuration.
func (c *Config) IsIgnored(name string) bool {
	for _, ignored := range c.IgnoredLists {
		if strings.EqualFold(strings.TrimSpace(name), ignored) {
			return true
		}
	}
	return false
}

// UseGoogle reports whether this run pulls from Google sources.
func (c *Config) UseGoogle() bool {
	return c.Mode == ModeGoogle || c.Mode == ModeAll || c.Mode == ModeAuto
}

// UseTodoist reports whether this run pulls from Todoist. In auto
// mode Todoist joins only when a token is configured.
func (c *Config) UseTodoist() bool {
	switch c.Mode {
	case ModeTodoist, ModeAll:
		return true
	case ModeAuto:
		return c.TodoistAPIToken != ""
	default:
		return false
	}
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	var file FileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if file.TimeZone != "" {
		cfg.TimeZone = file.TimeZone
	}
	if file.Mode != "" {
		cfg.Mode = Mode(file.Mode)
	}
	if len(file.IgnoredLists) > 0 {
		cfg.IgnoredLists = normalizeList(file.IgnoredLists)
	}
	if file.TodoistAPIToken != "" {
		cfg.TodoistAPIToken = file.TodoistAPIToken
	}
	if file.GoogleCredentialsFile != "" {
		cfg.GoogleCredentialsFile = file.GoogleCredentialsFile
	}
	if file.GoogleTokenFile != "" {
		cfg.GoogleTokenFile = file.GoogleTokenFile
	}
	if file.ServerPort != "" {
		cfg.ServerPort = file.ServerPort
	}
	if file.FrontendURL != "" {
		cfg.FrontendURL = file.FrontendURL
	}
	if file.IndentStep != 0 {
		cfg.IndentStep = file.IndentStep
	}
	if file.MaxResults != 0 {
		cfg.MaxResults = file.MaxResults
	}
	return nil
}

func splitList(raw string) []string {
	return normalizeList(strings.Split(raw, ","))
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
