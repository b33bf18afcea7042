package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"APP_PORT", "LOG_LEVEL", "STORE_BACKEND", "DATA_DIR",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"MONGODB_URI", "MONGODB_DB_NAME", "REPORT_CRON_SCHEDULE", "TIMEZONE",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN",
	"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_REPORT_RECIPIENT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		// Setenv registers the restore; godotenv only fills keys that are unset.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendCSV || cfg.Store.DataDir != "data" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.MongoDB.Enabled() {
		t.Error("mongodb should be disabled without a URI")
	}
	if cfg.WhatsApp.Enabled() {
		t.Error("whatsapp should be disabled without credentials")
	}
	if cfg.Reporting.CronSchedule != "0 20 * * *" || cfg.Reporting.Timezone != "UTC" {
		t.Errorf("Reporting = %+v", cfg.Reporting)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORE_BACKEND=CSV\nDATA_DIR=/var/lib/stockbook\nAPP_PORT=9090\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Store.Backend != BackendCSV || cfg.Store.DataDir != "/var/lib/stockbook" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "s3"}, "STORE_BACKEND"},
		{"sheets without credentials", map[string]string{"STORE_BACKEND": "sheets", "GOOGLE_SHEET_DATABASE_ID": "abc"}, "GOOGLE_SHEETS_CREDENTIALS_PATH"},
		{"sheets without id", map[string]string{"STORE_BACKEND": "sheets", "GOOGLE_SHEETS_CREDENTIALS_PATH": "creds.json"}, "GOOGLE_SHEET_DATABASE_ID"},
		{"partial whatsapp", map[string]string{"WHATSAPP_TOKEN": "token"}, "WHATSAPP_PHONE_NUMBER_ID"},
		{"whatsapp without verify token", map[string]string{"WHATSAPP_TOKEN": "token", "WHATSAPP_PHONE_NUMBER_ID": "123"}, "META_VERIFY_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateWhatsAppComplete(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHATSAPP_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("META_VERIFY_TOKEN", "verify")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.WhatsApp.Enabled() {
		t.Error("whatsapp should be enabled")
	}
	if cfg.WhatsApp.BaseURL != "https://graph.facebook.com" {
		t.Errorf("BaseURL = %q", cfg.WhatsApp.BaseURL)
	}
}
