package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/spf13/cobra"
)

func sceneCmd(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSceneFlags(cmd)
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestLoadConfig_DefaultPreset(t *testing.T) {
	cfg, name, err := loadConfig(sceneCmd(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if name != defaultPreset {
		t.Errorf("expected %s, got %s", defaultPreset, name)
	}
	if len(cfg.Bodies) != 3 {
		t.Errorf("expected 3 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.MinForce != 0.1 || cfg.PositionTerm != "legacy" {
		t.Errorf("unset flags must not override the preset: %+v", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	cmd := sceneCmd(t, "--mode", "realtime", "--exact", "--min-force", "0", "--steps", "5", "--speed", "60")
	cfg, name, err := loadConfig(cmd, []string{"binary"})
	if err != nil {
		t.Fatal(err)
	}
	if name != "binary" {
		t.Errorf("expected binary, got %s", name)
	}
	if cfg.Mode != "realtime" || cfg.PositionTerm != "exact" || cfg.MinForce != 0 || cfg.Steps != 5 || cfg.SpeedMultiplier != 60 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if config.Presets["binary"].Mode != "fixed" {
		t.Error("overrides leaked into the preset table")
	}
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	_, _, err := loadConfig(sceneCmd(t), []string{"andromeda"})
	if err == nil || !strings.Contains(err.Error(), "earth-moon") {
		t.Errorf("expected an error listing presets, got %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	data := "target_step: 30\nbodies:\n  - name: A\n  - name: B\n    position: [10, 0, 0]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := sceneCmd(t, "--config", path)
	defer func() { configFile = "" }()

	cfg, name, err := loadConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if name != "pair" {
		t.Errorf("expected name from file, got %s", name)
	}
	if cfg.TargetStep != 30 || len(cfg.Bodies) != 2 {
		t.Errorf("file not applied: %+v", cfg)
	}
}

func TestRunMetadata(t *testing.T) {
	cfg := config.GetPreset("earth-moon")
	result := &sim.Result{
		Steps:   3,
		Elapsed: 900,
		Metrics: map[string]float64{"stability": 1},
		Errors:  []error{sim.ErrNumericDegeneracy},
	}

	meta := runMetadata("earth-moon", cfg, result, []string{"Earth"}, []string{"#ffff00"})
	want := storage.RunMetadata{Preset: "earth-moon", Mode: "fixed", Term: "legacy", Steps: 3, Elapsed: 900}
	if meta.Preset != want.Preset || meta.Mode != want.Mode || meta.Term != want.Term || meta.Steps != want.Steps || meta.Elapsed != want.Elapsed {
		t.Errorf("expected %+v, got %+v", want, meta)
	}
	if len(meta.Errors) != 1 {
		t.Errorf("expected one error, got %v", meta.Errors)
	}
	if len(meta.Colors) != 1 || meta.Colors[0] != "#ffff00" {
		t.Errorf("expected recorded colors, got %v", meta.Colors)
	}
}
