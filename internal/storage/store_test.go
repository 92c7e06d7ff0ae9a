package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/integrator"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/telemetry"
)

func sampleFrames() []Frame {
	return []Frame{
		{Time: 0, Dt: 300, StepMs: 0.5, Positions: []mgl64.Vec3{{0, 0, 0}, {1e8, 0, 0}}},
		{Time: 300, Dt: 300, StepMs: 0.25, Positions: []mgl64.Vec3{{0, 0, 0}, {1e8, 3e5, 0}}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta := RunMetadata{
		Preset:  "earth-moon",
		Mode:    "fixed",
		Term:    "legacy",
		Steps:   2,
		Elapsed: 600,
		Bodies:  []string{"Earth", "Moon"},
		Metrics: map[string]float64{"energy_drift": 1.5e-6},
	}

	runID, err := st.Save(meta, sampleFrames())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if loaded.Preset != "earth-moon" {
		t.Errorf("expected preset 'earth-moon', got '%s'", loaded.Preset)
	}
	if loaded.Metrics["energy_drift"] != 1.5e-6 {
		t.Errorf("expected drift 1.5e-6, got %g", loaded.Metrics["energy_drift"])
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if series.Len() != 2 {
		t.Errorf("expected 2 rows, got %d", series.Len())
	}
	if len(series.Header) != 3+2*3 {
		t.Errorf("unexpected header %v", series.Header)
	}
	moonY, ok := series.Column("Moon.y")
	if !ok || moonY[1] != 3e5 {
		t.Errorf("expected Moon.y 3e5, got %v", moonY)
	}
	if _, ok := series.Column("Pluto.x"); ok {
		t.Error("unexpected column")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(filepath.Join(tmpDir, "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	ts := time.Unix(1700000000, 0)
	first, err := st.Save(RunMetadata{Preset: "binary", Timestamp: ts}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(RunMetadata{Preset: "binary", Timestamp: ts.Add(time.Second / 2)}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatalf("run ids collide: %s", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first {
		t.Errorf("expected oldest first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Preset: "test", Bodies: []string{"A"}}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "telemetry.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	if _, err := st.LoadSeries(runID); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Preset: "x", Bodies: []string{"Earth", "Moon"}}, sampleFrames())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if out.Run.ID != runID {
		t.Errorf("expected run %s, got %s", runID, out.Run.ID)
	}
	if len(out.Series["time"]) != 2 || out.Series["time"][1] != 300 {
		t.Errorf("unexpected time column %v", out.Series["time"])
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(2)
	rec.MaxFrames = 3

	for step := int64(1); step <= 10; step++ {
		snap := telemetry.Snapshot{
			Bodies: []telemetry.BodyView{{Name: "A", Position: mgl64.Vec3{float64(step), 0, 0}}},
			Clock:  telemetry.ClockView{Elapsed: float64(step)},
		}
		rec.OnStep(sim.Report{Step: step}, snap)
	}

	frames := rec.Frames()
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	want := []float64{6, 8, 10}
	for i, f := range frames {
		if f.Time != want[i] {
			t.Errorf("frame %d: expected t=%v, got %v", i, want[i], f.Time)
		}
	}
	if names := rec.Bodies(); len(names) != 1 || names[0] != "A" {
		t.Errorf("unexpected bodies %v", names)
	}

	rec.Reset()
	if len(rec.Frames()) != 0 {
		t.Error("reset should drop frames")
	}
}

func TestRecorderWithSimulation(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Policy = integrator.NewFixedTarget(60)
	cfg.MinForce = 0
	s := sim.New(cfg)
	if _, err := s.CreateBody(body.WithName("Earth"), body.WithMass(5.972e24), body.WithFrozen(true)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateBody(body.WithName("Probe"), body.WithPosition(7e6, 0, 0)); err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(1)
	s.AddObserver(rec)
	for range 5 {
		if _, err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}

	frames := rec.Frames()
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	if frames[4].Time != 300 {
		t.Errorf("expected t=300, got %v", frames[4].Time)
	}
	if frames[4].Positions[1][0] >= 7e6 {
		t.Error("probe should fall toward Earth")
	}
}
