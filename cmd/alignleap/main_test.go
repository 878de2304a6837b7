package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/alignleap/internal/config"
	"github.com/nvandessel/alignleap/internal/dynamics"
	"github.com/nvandessel/alignleap/internal/logging"
	"github.com/nvandessel/alignleap/internal/simulation"
)

// isolateHome sets HOME to a temp directory to avoid touching a real
// ~/.alignleap/ and clears environment overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"ALIGNLEAP_NODES", "ALIGNLEAP_SEED", "ALIGNLEAP_STEPS", "ALIGNLEAP_DT",
		"ALIGNLEAP_PRESSURE", "ALIGNLEAP_LOG_LEVEL", "ALIGNLEAP_TRACE_DIR", "ALIGNLEAP_METRICS_FILE",
	} {
		t.Setenv(k, "")
	}
	return home
}

// execRoot runs the root command with args and returns stdout and stderr.
func execRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"version": false, "run": false, "graph": false, "config": false, "params": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	out, _, err := execRoot(t, "version", "--json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestRunCmd_JSON(t *testing.T) {
	isolateHome(t)
	out, _, err := execRoot(t, "run", "--nodes", "3", "--steps", "20", "--every", "10", "--json")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 2 step lines and a summary, got %d:\n%s", len(lines), out)
	}

	var step struct {
		Step int     `json:"step"`
		Heat float64 `json:"heat"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &step); err != nil || step.Step != 10 {
		t.Errorf("second line = %q (err %v), want step 10", lines[1], err)
	}

	var summary map[string]runSummary
	if err := json.Unmarshal([]byte(lines[2]), &summary); err != nil {
		t.Fatalf("summary %q: %v", lines[2], err)
	}
	s := summary["summary"]
	if s.Steps != 20 || s.RunID == "" || s.Cancelled {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Attractor < 0 || s.Attractor >= 3 {
		t.Errorf("attractor %d out of range", s.Attractor)
	}
}

func TestRunCmd_Table(t *testing.T) {
	isolateHome(t)
	out, _, err := execRoot(t, "run", "--nodes", "4", "--steps", "5", "--every", "1", "--pressure", "sine", "--period", "4")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"STEP", "ENTROPY", "completed", "jumps:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCmd_InvalidFlags(t *testing.T) {
	isolateHome(t)
	tests := []struct {
		name string
		args []string
	}{
		{"zero nodes", []string{"run", "--nodes", "0"}},
		{"unknown pressure", []string{"run", "--pressure", "ramp"}},
		{"sine without period", []string{"run", "--pressure", "sine", "--period", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execRoot(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunCmd_TraceAndMetrics(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	traceDir := filepath.Join(dir, "trace")
	metricsFile := filepath.Join(dir, "alignleap.prom")

	_, stderr, err := execRoot(t, "run", "--nodes", "3", "--steps", "15", "--every", "0",
		"--trace-dir", traceDir, "--metrics-file", metricsFile, "--log-level", "debug")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(traceDir, logging.TraceFile))
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	if n := len(strings.Split(strings.TrimSpace(string(data)), "\n")); n != 15 {
		t.Errorf("trace has %d lines, want 15", n)
	}

	prom, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !strings.Contains(string(prom), "alignleap_steps_total 15") {
		t.Errorf("metrics missing step count:\n%s", prom)
	}
	if !strings.Contains(stderr, "run started") {
		t.Errorf("expected run log on stderr, got %q", stderr)
	}
}

func TestRunCmd_WatchRequiresConfig(t *testing.T) {
	isolateHome(t)
	if _, _, err := execRoot(t, "run", "--steps", "1", "--watch"); err == nil {
		t.Error("expected error when no config file exists")
	}
}

func TestRunCmd_WatchWithConfig(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  nodes: 3\n  steps: 10\n"), 0600); err != nil {
		t.Fatal(err)
	}
	out, _, err := execRoot(t, "run", "--config", path, "--watch", "--every", "0", "--json")
	if err != nil {
		t.Fatalf("run --watch: %v", err)
	}
	if !strings.Contains(out, `"steps":10`) {
		t.Errorf("expected 10 steps in summary, got %s", out)
	}
}

func TestGraphCmd(t *testing.T) {
	isolateHome(t)

	dot, _, err := execRoot(t, "graph", "--nodes", "3", "--steps", "30")
	if err != nil {
		t.Fatalf("graph dot: %v", err)
	}
	if !strings.HasPrefix(dot, "digraph alignleap {") {
		t.Errorf("unexpected DOT output:\n%s", dot)
	}

	out, _, err := execRoot(t, "graph", "--nodes", "3", "--steps", "30", "--format", "json", "--min-kappa", "1e9")
	if err != nil {
		t.Fatalf("graph json: %v", err)
	}
	var g struct {
		NodeCount int `json:"node_count"`
		EdgeCount int `json:"edge_count"`
		Nodes     []struct {
			Rank float64 `json:"rank"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if g.NodeCount != 3 || g.EdgeCount != 0 {
		t.Errorf("node_count=%d edge_count=%d, want 3 and 0", g.NodeCount, g.EdgeCount)
	}
	var top float64
	for _, n := range g.Nodes {
		top = max(top, n.Rank)
	}
	if top != 1 {
		t.Errorf("max rank = %v, want 1", top)
	}
}

func TestGraphCmd_BadFormat(t *testing.T) {
	isolateHome(t)
	if _, _, err := execRoot(t, "graph", "--format", "html"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestConfigCmds(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, _, err := execRoot(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("init output %q should name the path", out)
	}
	if _, _, err := execRoot(t, "config", "init", "--config", path); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, _, err := execRoot(t, "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	written, err := config.LoadFromFile(path)
	if err != nil {
		t.Fatalf("written config unreadable: %v", err)
	}
	if written.Params != dynamics.DefaultParams() {
		t.Error("init should write default params")
	}

	out, _, err = execRoot(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "simulation:") || !strings.Contains(out, "kappa_min:") {
		t.Errorf("show output missing sections:\n%s", out)
	}

	out, _, err = execRoot(t, "config", "validate", "--config", path)
	if err != nil || !strings.Contains(out, "valid") {
		t.Errorf("validate: out=%q err=%v", out, err)
	}

	if err := os.WriteFile(path, []byte("simulation:\n  nodes: -1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	out, _, err = execRoot(t, "config", "validate", "--config", path, "--json")
	if err == nil {
		t.Error("expected validation failure")
	}
	if !strings.Contains(out, `"valid":false`) {
		t.Errorf("json validate output = %q", out)
	}
}

func TestParamsCmd(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("params:\n  sigma: 0.75\n"), 0600); err != nil {
		t.Fatal(err)
	}

	out, _, err := execRoot(t, "params", "--config", path)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if !strings.Contains(out, "sigma: 0.75") {
		t.Errorf("expected configured sigma:\n%s", out)
	}

	out, _, err = execRoot(t, "params", "--config", path, "--defaults", "--json")
	if err != nil {
		t.Fatalf("params --defaults: %v", err)
	}
	var p dynamics.Params
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if p != dynamics.DefaultParams() {
		t.Errorf("--defaults = %+v", p)
	}
}

func TestApplyReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("params:\n  h0: 0.2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	w, err := config.NewWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	in, err := dynamics.New(2, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	hook := applyReloads(w, logging.NewLogger("info", &bytes.Buffer{}))

	hook(0, in)
	if in.Params() != dynamics.DefaultParams() {
		t.Error("version 0 should not replace params")
	}

	if err := os.WriteFile(path, []byte("simulation:\n  forgetting: 0.5\nparams:\n  h0: 0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := w.Reload(); err != nil {
		t.Fatal(err)
	}
	hook(1, in)
	if in.Params().H0 != 0 || in.Forgetting() != 0.5 {
		t.Errorf("reload not applied: h0=%v forgetting=%v", in.Params().H0, in.Forgetting())
	}
}

func TestStepPrinter_Disabled(t *testing.T) {
	if stepPrinter(&bytes.Buffer{}, 0, false) != nil {
		t.Error("every=0 should disable step output")
	}
	var buf bytes.Buffer
	p := stepPrinter(&buf, 2, false)
	p(simulation.StepRecord{Index: 1})
	if buf.Len() != 0 {
		t.Error("odd step should not print with every=2")
	}
	p(simulation.StepRecord{Index: 2, Telemetry: dynamics.Telemetry{DidJump: true}})
	if !strings.Contains(buf.String(), "*") {
		t.Errorf("jump marker missing: %q", buf.String())
	}
}
