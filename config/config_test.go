package config

import (
	"os"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	// Set valid environment variables
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	_ = os.Setenv("BADGER_PATH", "/tmp/pillreminder-test")
	_ = os.Setenv("DATASET_PATH", "/tmp/reference.csv")
	_ = os.Setenv("DATASET_MATCH_MODE", "fold")
	_ = os.Setenv("DATASET_FAIL_CLOSED", "true")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.BadgerPath != "/tmp/pillreminder-test" {
		t.Errorf("Expected badger path /tmp/pillreminder-test, got %s", cfg.BadgerPath)
	}
	if cfg.DatasetPath != "/tmp/reference.csv" {
		t.Errorf("Expected dataset path /tmp/reference.csv, got %s", cfg.DatasetPath)
	}
	if cfg.DatasetMatchMode != "fold" {
		t.Errorf("Expected dataset match mode fold, got %s", cfg.DatasetMatchMode)
	}
	if !cfg.DatasetFailClosed {
		t.Error("Expected DatasetFailClosed to be true")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected default address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != "dev" {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.BadgerPath != "data/badger" {
		t.Errorf("Expected default badger path data/badger, got %s", cfg.BadgerPath)
	}
	if cfg.DatasetPath != "files/drug_reference.csv" {
		t.Errorf("Expected default dataset path files/drug_reference.csv, got %s", cfg.DatasetPath)
	}
	if cfg.DatasetMatchMode != "exact" {
		t.Errorf("Expected default match mode exact, got %s", cfg.DatasetMatchMode)
	}
	if cfg.DatasetFailClosed {
		t.Error("Expected DatasetFailClosed to default to false")
	}
	if !cfg.DatasetRefresh {
		t.Error("Expected DatasetRefresh to default to true")
	}
	if cfg.SeedTestUsers {
		t.Error("Expected SeedTestUsers to default to false")
	}
}

func TestInvalidPort(t *testing.T) {
	// Test invalid port values (excluding empty string since it uses default)
	testCases := []string{"abc", "0", "65536", "80"}

	for _, port := range testCases {
		_ = os.Setenv("PORT", port)
		_ = os.Setenv("ADDRESS", "127.0.0.1")
		_ = os.Setenv("ENV", "dev")
		_ = os.Setenv("LOG_LEVEL", "info")

		_, err := Load()
		if err == nil {
			t.Errorf("Expected error for port %s, got nil", port)
		}
	}
	cleanupEnv()
}

func TestInvalidAddress(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "invalid")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "info")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for address invalid, got nil")
	}
}

func TestInvalidEnv(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "invalid")
	_ = os.Setenv("LOG_LEVEL", "info")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for env invalid, got nil")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_ = os.Setenv("PORT", "8002")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("LOG_LEVEL", "invalid")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for log level invalid, got nil")
	}
}

func TestInvalidDatasetMatchMode(t *testing.T) {
	_ = os.Setenv("DATASET_MATCH_MODE", "fuzzy")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for match mode fuzzy, got nil")
	}
}

func TestSeedTestUsersRejectedInProd(t *testing.T) {
	_ = os.Setenv("ENV", "prod")
	_ = os.Setenv("SEED_TEST_USERS", "true")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for test fixtures in prod, got nil")
	}
}

func TestSeedTestUsersAllowedInDev(t *testing.T) {
	_ = os.Setenv("ENV", "dev")
	_ = os.Setenv("SEED_TEST_USERS", "true")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !cfg.SeedTestUsers {
		t.Error("Expected SeedTestUsers to be true")
	}
}

func cleanupEnv() {
	_ = os.Unsetenv("PORT")
	_ = os.Unsetenv("ADDRESS")
	_ = os.Unsetenv("ENV")
	_ = os.Unsetenv("LOG_LEVEL")
	_ = os.Unsetenv("BADGER_PATH")
	_ = os.Unsetenv("DATASET_PATH")
	_ = os.Unsetenv("DATASET_MATCH_MODE")
	_ = os.Unsetenv("DATASET_FAIL_CLOSED")
	_ = os.Unsetenv("DATASET_REFRESH")
	_ = os.Unsetenv("SEED_TEST_USERS")
}
