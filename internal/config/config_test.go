package config

import (
	"os"
	"path/filepath"
	"testing"
)

// Every variable Load reads; cleared per test so leftovers from the
// host environment cannot leak in.
var allConfigEnvVars = []string{
	"PLANNED_CONFIG_FILE",
	"TIME_ZONE",
	"PLANNED_MODE",
	"IGNORED_LISTS",
	"TODOIST_API_TOKEN",
	"GOOGLE_CREDENTIALS_FILE",
	"GOOGLE_TOKEN_FILE",
	"SERVER_PORT",
	"FRONTEND_URL",
	"INDENT_STEP",
	"MAX_RESULTS",
	"DEBUG_MODE",
	"OTEL_ENABLED",
	"OTEL_EXPORTER_OTLP_ENDPOINT",
}

func setEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for _, key := range allConfigEnvVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TimeZone != "UTC" {
					t.Errorf("Expected default TimeZone to be 'UTC', got '%s'", cfg.TimeZone)
				}
				if cfg.Mode != ModeAuto {
					t.Errorf("Expected default Mode to be 'auto', got '%s'", cfg.Mode)
				}
				if cfg.ServerPort != "8080" {
					t.Errorf("Expected default ServerPort to be '8080', got '%s'", cfg.ServerPort)
				}
				if cfg.IndentStep != 2 {
					t.Errorf("Expected default IndentStep to be 2, got %d", cfg.IndentStep)
				}
				if cfg.MaxResults != 100 {
					t.Errorf("Expected default MaxResults to be 100, got %d", cfg.MaxResults)
				}
			},
		},
		{
			name: "env vars override defaults",
			envVars: map[string]string{
				"TIME_ZONE":     "Europe/Madrid",
				"PLANNED_MODE":  "todoist",
				"IGNORED_LISTS": "Inbox, Someday ,",
				"SERVER_PORT":   "9090",
				"DEBUG_MODE":    "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.TimeZone != "Europe/Madrid" {
					t.Errorf("Expected TimeZone to be 'Europe/Madrid', got '%s'", cfg.TimeZone)
				}
				if cfg.Mode != ModeTodoist {
					t.Errorf("Expected Mode to be 'todoist', got '%s'", cfg.Mode)
				}
				if len(cfg.IgnoredLists) != 2 || cfg.IgnoredLists[0] != "Inbox" || cfg.IgnoredLists[1] != "Someday" {
					t.Errorf("Expected IgnoredLists to be [Inbox Someday], got %v", cfg.IgnoredLists)
				}
				if cfg.ServerPort != "9090" {
					t.Errorf("Expected ServerPort to be '9090', got '%s'", cfg.ServerPort)
				}
				if !cfg.DebugMode {
					t.Error("Expected DebugMode to be true")
				}
			},
		},
		{
			name:        "invalid mode",
			envVars:     map[string]string{"PLANNED_MODE": "everything"},
			expectError: true,
		},
		{
			name:        "negative indent",
			envVars:     map[string]string{"INDENT_STEP": "-1"},
			expectError: true,
		},
		{
			name:        "zero max results",
			envVars:     map[string]string{"MAX_RESULTS": "0"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.envVars)

			cfg, err := Load()
			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planned.yaml")
	data := []byte("timezone: Asia/Seoul\nmode: google\nignored_lists:\n  - Archive\nindent_step: 4\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	setEnv(t, map[string]string{
		"PLANNED_CONFIG_FILE": path,
		// Env still wins over the file.
		"TIME_ZONE": "Europe/Madrid",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeZone != "Europe/Madrid" {
		t.Errorf("Expected env TIME_ZONE to win, got '%s'", cfg.TimeZone)
	}
	if cfg.Mode != ModeGoogle {
		t.Errorf("Expected Mode from file to be 'google', got '%s'", cfg.Mode)
	}
	if len(cfg.IgnoredLists) != 1 || cfg.IgnoredLists[0] != "Archive" {
		t.Errorf("Expected IgnoredLists from file, got %v", cfg.IgnoredLists)
	}
	if cfg.IndentStep != 4 {
		t.Errorf("Expected IndentStep from file to be 4, got %d", cfg.IndentStep)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	setEnv(t, map[string]string{
		"PLANNED_CONFIG_FILE": filepath.Join(t.TempDir(), "missing.yaml"),
	})
	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestIsIgnored(t *testing.T) {
	cfg := &Config{IgnoredLists: []string{"Inbox", "Someday"}}

	tests := []struct {
		name string
		want bool
	}{
		{"Inbox", true},
		{"inbox", true},
		{" Someday ", true},
		{"Work", false},
	}
	for _, tt := range tests {
		if got := cfg.IsIgnored(tt.name); got != tt.want {
			t.Errorf("IsIgnored(%q) = %t, want %t", tt.name, got, tt.want)
		}
	}
}

func TestModeSelection(t *testing.T) {
	tests := []struct {
		mode        Mode
		token       string
		wantGoogle  bool
		wantTodoist bool
	}{
		{ModeGoogle, "", true, false},
		{ModeTodoist, "", false, true},
		{ModeAll, "", true, true},
		{ModeAuto, "", true, false},
		{ModeAuto, "tok", true, true},
	}
	for _, tt := range tests {
		cfg := &Config{Mode: tt.mode, TodoistAPIToken: tt.token}
		if got := cfg.UseGoogle(); got != tt.wantGoogle {
			t.Errorf("mode=%s token=%q: UseGoogle() = %t, want %t", tt.mode, tt.token, got, tt.wantGoogle)
		}
		if got := cfg.UseTodoist(); got != tt.wantTodoist {
			t.Errorf("mode=%s token=%q: UseTodoist() = %t, want %t", tt.mode, tt.token, got, tt.wantTodoist)
		}
	}
}
