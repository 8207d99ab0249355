package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Target != "" || cfg.OutputKind != "" {
		t.Errorf("expected a zero Config, got %+v", cfg)
	}
}

func TestLoadParsesYamlOverrides(t *testing.T) {
	dir := t.TempDir()
	content := "target: x86_64-unknown-linux-gnu\noutput_kind: asm\n"
	if err := os.WriteFile(filepath.Join(dir, "emberc.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Target != "x86_64-unknown-linux-gnu" {
		t.Errorf("got Target=%q", cfg.Target)
	}
	if cfg.OutputKind != "asm" {
		t.Errorf("got OutputKind=%q", cfg.OutputKind)
	}
}

func TestLoadForInputResolvesRelativeToSourceFileDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "emberc.yaml"), []byte("target: wasm32\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadForInput(filepath.Join(dir, "main.mpc"))
	if err != nil {
		t.Fatalf("LoadForInput: %v", err)
	}
	if cfg.Target != "wasm32" {
		t.Errorf("got Target=%q", cfg.Target)
	}
}

func TestLoadInvalidYamlErrors(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "emberc.yaml"), []byte("target: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected an error parsing invalid yaml")
	}
}
