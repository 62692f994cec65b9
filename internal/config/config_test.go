package config

import (
	"os"
	"strings"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			result := GetEnvWithDefault(tt.key, tt.defaultValue)

			if result != tt.expected {
				t.Errorf("GetEnvWithDefault() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	t.Setenv("INT_KEY", "12")
	t.Setenv("BAD_INT_KEY", "twelve")
	t.Setenv("BOOL_KEY", "true")

	if got := GetEnvAsType("INT_KEY", 4); got != 12 {
		t.Errorf("GetEnvAsType(INT_KEY) = %d, expected 12", got)
	}
	if got := GetEnvAsType("BAD_INT_KEY", 4); got != 4 {
		t.Errorf("GetEnvAsType(BAD_INT_KEY) = %d, expected default 4", got)
	}
	if got := GetEnvAsType("BOOL_KEY", false); !got {
		t.Error("GetEnvAsType(BOOL_KEY) = false, expected true")
	}
}

var configVars = []string{
	"APP_ENV", "APP_PORT", "APP_HOST", "LOG_LEVEL", "DB_DRIVER", "DATABASE_URL",
	"TOKEN_FORMAT", "TOKEN_SECRET", "TOKEN_TTL_HOURS", "MAX_UPLOAD_MB", "MEDIA_ROOT",
}

func cleanupTestEnv() {
	for _, v := range configVars {
		os.Unsetenv(v)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("successful config load with all env vars", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "9000")
		os.Setenv("APP_HOST", "0.0.0.0")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("DB_DRIVER", "postgres")
		os.Setenv("DATABASE_URL", "postgres://recipes:pw@db:5432/recipes")
		os.Setenv("TOKEN_FORMAT", "jwt")
		os.Setenv("TOKEN_SECRET", "super_secret_key")
		os.Setenv("TOKEN_TTL_HOURS", "2")
		os.Setenv("MEDIA_ROOT", "/vol/web/media")

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned error: %v", err)
		}

		if config.Port != 9000 {
			t.Errorf("Port = %d, expected 9000", config.Port)
		}
		if config.Host != "0.0.0.0" {
			t.Errorf("Host = %s, expected 0.0.0.0", config.Host)
		}
		if config.DBDriver != "postgres" {
			t.Errorf("DBDriver = %s, expected postgres", config.DBDriver)
		}
		if config.TokenFormat != TokenFormatJWT {
			t.Errorf("TokenFormat = %s, expected jwt", config.TokenFormat)
		}
		if config.TokenTTLHours != 2 {
			t.Errorf("TokenTTLHours = %d, expected 2", config.TokenTTLHours)
		}
		if config.MediaRoot != "/vol/web/media" {
			t.Errorf("MediaRoot = %s, expected /vol/web/media", config.MediaRoot)
		}
	})

	t.Run("should fail with invalid port", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("APP_PORT", "not_a_number")

		config, err := LoadConfig()

		if err == nil {
			t.Error("LoadConfig() should return error when APP_PORT is invalid")
		}
		if config != nil {
			t.Error("Config should be nil when error occurs")
		}
	})

	t.Run("should fail with unsupported driver", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("DB_DRIVER", "oracle")

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error when DB_DRIVER is unsupported")
		}
	})

	t.Run("should fail with unknown token format", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("TOKEN_FORMAT", "paseto")

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error when TOKEN_FORMAT is unknown")
		}
	})

	t.Run("should fail with non positive token ttl", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()
		os.Setenv("TOKEN_TTL_HOURS", "0")

		if _, err := LoadConfig(); err == nil {
			t.Error("LoadConfig() should return error when TOKEN_TTL_HOURS is 0")
		}
	})

	t.Run("should use defaults when optional env vars not set", func(t *testing.T) {
		cleanupTestEnv()
		defer cleanupTestEnv()

		config, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() returned unexpected error: %v", err)
		}

		if config.Port != 8080 {
			t.Errorf("Port = %d, expected default 8080", config.Port)
		}
		if config.Host != "localhost" {
			t.Errorf("Host = %s, expected default localhost", config.Host)
		}
		if config.LogLevel != "info" {
			t.Errorf("LogLevel = %s, expected default info", config.LogLevel)
		}
		if config.DBDriver != "sqlite" {
			t.Errorf("DBDriver = %s, expected default sqlite", config.DBDriver)
		}
		if config.TokenFormat != TokenFormatOpaque {
			t.Errorf("TokenFormat = %s, expected default opaque", config.TokenFormat)
		}
		if config.TokenTTLHours != 168 {
			t.Errorf("TokenTTLHours = %d, expected default 168", config.TokenTTLHours)
		}
	})
}

func TestConfigStringMasksSecrets(t *testing.T) {
	c := &Config{
		DatabaseURL: "postgres://recipes:topsecret@db:5432/recipes",
		DBPassword:  "topsecret",
		TokenSecret: "tokensecret",
	}

	s := c.String()
	for _, secret := range []string{"topsecret", "tokensecret"} {
		if strings.Contains(s, secret) {
			t.Errorf("String() leaked %q: %s", secret, s)
		}
	}
}

// Benchmark tests (optional but good practice)
func BenchmarkGetEnvWithDefault(b *testing.B) {
	os.Setenv("BENCH_KEY", "test_value")
	defer os.Unsetenv("BENCH_KEY")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GetEnvWithDefault("BENCH_KEY", "default")
	}
}
