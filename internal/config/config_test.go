package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "PUZZLE_MODE", "AI_GATEWAY", "AI_GATEWAY_API_KEY", "IMAGE_MODEL", "IMAGE_SIZE"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DatabasePath != "dungeondelve.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if cfg.PuzzleMode != "classic" {
		t.Errorf("PuzzleMode = %q", cfg.PuzzleMode)
	}
	if cfg.ImageModel != "google/imagen-4.0-fast-generate-001" {
		t.Errorf("ImageModel = %q", cfg.ImageModel)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("PUZZLE_MODE", "scavenger")
	t.Setenv("AI_GATEWAY", "vck_abc123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9191" || cfg.PuzzleMode != "scavenger" || cfg.AIGateway != "vck_abc123" {
		t.Errorf("cfg = %+v", cfg)
	}
}
