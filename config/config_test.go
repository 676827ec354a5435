package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_DB_NAME", "")
	t.Setenv("TWILIO_BASE_URL", "")

	cfg := Load()
	if cfg.MongoDBName != "agency_os" {
		t.Fatalf("expected default database name, got %q", cfg.MongoDBName)
	}
	if cfg.TwilioBaseURL != "https://api.twilio.com" {
		t.Fatalf("expected default Twilio base URL, got %q", cfg.TwilioBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresCoreSettings(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"missing port", func(c *Config) { c.ServerPort = "" }},
		{"missing mongo uri", func(c *Config) { c.MongoURI = "" }},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerPort: "8080", MongoURI: "mongodb://localhost", JWTSecret: "s"}
			tt.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadReadsStorageFlags(t *testing.T) {
	t.Setenv("STORAGE_USE_SSL", "true")
	if cfg := Load(); !cfg.StorageUseSSL {
		t.Fatal("expected StorageUseSSL true")
	}

	t.Setenv("STORAGE_USE_SSL", "false")
	if cfg := Load(); cfg.StorageUseSSL {
		t.Fatal("expected StorageUseSSL false")
	}
}
