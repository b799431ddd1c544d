package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Input.Touch != TouchAuto {
		t.Errorf("expected touch auto, got %s", cfg.Input.Touch)
	}
	if !cfg.AutoFire.Enabled {
		t.Error("autofire should be enabled by default")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	data := "window:\n  width: 640\nautofire:\n  loop_delay: 3.5\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Width != 640 {
		t.Errorf("expected width 640, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 800 {
		t.Errorf("expected default height kept, got %d", cfg.Window.Height)
	}
	if cfg.AutoFire.LoopDelay != 3.5 {
		t.Errorf("expected loop delay 3.5, got %f", cfg.AutoFire.LoopDelay)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("window: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("finale")
	cfg.Seed = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("expected %+v, got %+v", cfg, got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SKYBURST_WINDOW_WIDTH", "1024")
	t.Setenv("SKYBURST_INPUT_REDUCED_MOTION", "true")
	t.Setenv("SKYBURST_AUTOFIRE_INTERVAL_MAX", "5")
	t.Setenv("SKYBURST_SEED", "99")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Window.Width != 1024 {
		t.Errorf("expected width 1024, got %d", cfg.Window.Width)
	}
	if !cfg.Input.ReducedMotion {
		t.Error("expected reduced motion")
	}
	if cfg.AutoFire.IntervalMax != 5 {
		t.Errorf("expected interval max 5, got %f", cfg.AutoFire.IntervalMax)
	}
	if cfg.Seed != 99 {
		t.Errorf("expected seed 99, got %d", cfg.Seed)
	}
	if cfg.Window.Height != 800 {
		t.Error("unset variables must keep their values")
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("SKYBURST_WINDOW_WIDTH", "wide")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Width = 0
	cfg.Input.Touch = "sometimes"
	cfg.AutoFire.IntervalMin = 3

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"window size", "input.touch", "interval range"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}

	if GetPreset("quiet").AutoFire.Enabled {
		t.Error("quiet preset should disable autofire")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetIsFresh(t *testing.T) {
	a := GetPreset("calm")
	a.Window.Width = 1
	if GetPreset("calm").Window.Width == 1 {
		t.Error("presets must not share state")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestStageOptions(t *testing.T) {
	cfg := GetPreset("calm")
	cfg.Input.Touch = TouchOn
	cfg.Input.TouchIntensity = 250

	opts := cfg.StageOptions(false)
	if opts.Width != 1280 || opts.Height != 800 {
		t.Errorf("unexpected viewport %fx%f", opts.Width, opts.Height)
	}
	if !opts.Touch {
		t.Error("touch on must force the touch path")
	}
	if opts.Gesture.TouchIntensity != 250 {
		t.Errorf("expected touch intensity 250, got %f", opts.Gesture.TouchIntensity)
	}
	if opts.AutoFire.IntervalMin != 2.0 {
		t.Errorf("expected calm interval, got %f", opts.AutoFire.IntervalMin)
	}
	if opts.Explosion.MaxParticles != 150 {
		t.Error("unmapped explosion tuning should keep engine defaults")
	}
}

func TestUseTouch(t *testing.T) {
	tests := []struct {
		mode    string
		capable bool
		want    bool
	}{
		{TouchAuto, true, true},
		{TouchAuto, false, false},
		{TouchOn, false, true},
		{TouchOff, true, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Input.Touch = tt.mode
		if got := cfg.UseTouch(tt.capable); got != tt.want {
			t.Errorf("mode %s capable %v: expected %v, got %v", tt.mode, tt.capable, tt.want, got)
		}
	}
}

func TestNewStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 3
	stage, seed, err := cfg.NewStage(false, nil)
	if err != nil {
		t.Fatalf("new stage: %v", err)
	}
	defer stage.Close()

	if seed != 3 {
		t.Errorf("expected seed 3, got %d", seed)
	}
	w, h := stage.Surface.Size()
	if w != 1280 || h != 800 {
		t.Errorf("unexpected surface %fx%f", w, h)
	}

	stage.Start()
	stage.Explosions.Launch(stage.Surface.Center(), 300)
	if stage.Surface.Len() == 0 {
		t.Error("expected particles on the surface")
	}
}

func TestNewStageInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Height = -1
	if _, _, err := cfg.NewStage(false, nil); err == nil {
		t.Error("expected invalid config error")
	}
}

func TestRandSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 11
	a, _ := cfg.Rand()
	b, _ := cfg.Rand()
	if a.Float64() != b.Float64() {
		t.Error("same seed must give the same sequence")
	}

	cfg.Seed = 0
	if _, seed := cfg.Rand(); seed == 0 {
		t.Error("expected a clock seed")
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	if err := os.WriteFile(path, []byte("seed: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("quiet")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 5 {
		t.Errorf("expected seed 5, got %d", cfg.Seed)
	}
	if cfg.AutoFire.Enabled {
		t.Error("expected preset values kept")
	}
	if base.Seed != 0 {
		t.Error("base must not be modified")
	}
}

func TestLoadPreset(t *testing.T) {
	if _, err := LoadPreset("finale"); err != nil {
		t.Errorf("finale: %v", err)
	}
	_, err := LoadPreset("encore")
	if !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
