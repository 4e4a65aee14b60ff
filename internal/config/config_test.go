package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearBugbotEnv isolates tests from any ambient configuration.
func clearBugbotEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOST", "PORT",
		"SLACK_ACCESS_TOKEN", "SLACK_VERIFICATION_TOKEN",
		"TRACKER_BACKEND", "TRACKER_API_TOKEN", "TRACKER_PROJECT_ID", "TRACKER_WORKSPACE",
		"TRELLO_KEY", "TRELLO_ACCESS_TOKEN", "TRELLO_LIST_ID", "TRELLO_ORG",
		"CONFIRMATION_CHANNEL", "DEBUG_CHANNEL", "DEBUG_MODE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearBugbotEnv(t)
	t.Setenv("SLACK_ACCESS_TOKEN", "xoxb-abc")
	t.Setenv("SLACK_VERIFICATION_TOKEN", "vtok")
	t.Setenv("TRACKER_API_TOKEN", "sc-token")
	t.Setenv("TRACKER_PROJECT_ID", "42")
	t.Setenv("TRACKER_WORKSPACE", "acme")
	t.Setenv("PORT", "9090")
	t.Setenv("DEBUG_MODE", "true")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Tracker.Backend != "shortcut" {
		t.Errorf("backend = %q, want default", cfg.Tracker.Backend)
	}
	if cfg.Tracker.ProjectID != 42 {
		t.Errorf("project id = %d", cfg.Tracker.ProjectID)
	}
	if cfg.Notify.ConfirmationChannel != "#bugs" {
		t.Errorf("confirmation channel = %q, want default", cfg.Notify.ConfirmationChannel)
	}
	if cfg.Notify.DebugChannel != "#integration-sandbox" {
		t.Errorf("debug channel = %q, want default", cfg.Notify.DebugChannel)
	}
	if !cfg.Notify.DebugMode {
		t.Error("debug mode not set")
	}
}

func TestLoadFromEnv_TrelloBackend(t *testing.T) {
	clearBugbotEnv(t)
	t.Setenv("SLACK_ACCESS_TOKEN", "xoxb-abc")
	t.Setenv("SLACK_VERIFICATION_TOKEN", "vtok")
	t.Setenv("TRACKER_BACKEND", "trello")
	t.Setenv("TRELLO_KEY", "k")
	t.Setenv("TRELLO_ACCESS_TOKEN", "tok")
	t.Setenv("TRELLO_LIST_ID", "list-1")
	t.Setenv("TRELLO_ORG", "acme")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Tracker.Backend != "trello" {
		t.Errorf("backend = %q", cfg.Tracker.Backend)
	}
	if cfg.Trello.ListID != "list-1" {
		t.Errorf("trello = %+v", cfg.Trello)
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	clearBugbotEnv(t)

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected validation failure with an empty environment")
	}

	msg := err.Error()
	for _, want := range []string{
		"slack.access_token is required",
		"slack.verification_token is required",
		"tracker.token is required",
		"tracker.project_id is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q:\n%s", want, msg)
		}
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	clearBugbotEnv(t)
	t.Setenv("SLACK_ACCESS_TOKEN", "xoxb-abc")
	t.Setenv("SLACK_VERIFICATION_TOKEN", "vtok")
	t.Setenv("TRACKER_BACKEND", "jira")

	_, err := LoadFromEnv()
	if err == nil || !strings.Contains(err.Error(), `tracker.backend must be "shortcut" or "trello"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"slack": {"access_token": "xoxb-abc", "verification_token": "vtok"},
		"tracker": {"token": "sc-token", "project_id": 42, "workspace": "acme"}
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
	if cfg.Tracker.Backend != "shortcut" {
		t.Errorf("backend = %q, want default", cfg.Tracker.Backend)
	}
	if cfg.Tracker.Workspace != "acme" {
		t.Errorf("workspace = %q", cfg.Tracker.Workspace)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
