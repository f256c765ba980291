// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ORGANIZER_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.SuggestionLimit != DefaultSuggestionLimit {
		t.Errorf("expected default suggestion limit, got %d", cfg.SuggestionLimit)
	}
	if cfg.MaxSuggestions != DefaultMaxSuggestions {
		t.Errorf("expected default max suggestions, got %d", cfg.MaxSuggestions)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ORGANIZER_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-t", "postgres"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error without database URL")
	}

	if _, err := ParseFlags([]string{"-d", "file:test.db"}); err == nil {
		t.Error("expected error without organizer key salt")
	}
}

func TestParseFlags_ConfigFile(t *testing.T) {
	os.Clearenv()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: 4000
database_url: file:from-file.db
organizer_key_salt: file-salt
suggestion_limit: 5
max_suggestions: 20
google:
  credentials_file: creds.json
  calendar_id: primary
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 4000 {
		t.Errorf("expected port 4000 from file, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "file:from-file.db" {
		t.Errorf("expected database URL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.SuggestionLimit != 5 || cfg.MaxSuggestions != 20 {
		t.Errorf("expected suggestion settings from file, got %d/%d", cfg.SuggestionLimit, cfg.MaxSuggestions)
	}
	if cfg.Google.CalendarID != "primary" {
		t.Errorf("expected calendar id from file, got %q", cfg.Google.CalendarID)
	}
}

func TestParseFlags_EnvOverridesFile(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 4000\ndatabase_url: file:test.db\norganizer_key_salt: s\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags([]string{"-c", path})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 {
		t.Errorf("env should override file: expected 9000, got %d", cfg.Port)
	}
}
