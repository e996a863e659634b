package main

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/gobaseline/buffer/gae"
	"github.com/samuelfneumann/gobaseline/resolver"
)

func TestWalkRollout(t *testing.T) {
	buf, err := gae.New(1, 0.9, 0.9)
	if err != nil {
		t.Fatal(err)
	}

	w := newWalk(7, 0.5, 30)
	for e := 0; e < 20; e++ {
		before := buf.Len()
		n, err := w.rollout(buf)
		if err != nil {
			t.Fatal(err)
		}
		if n < 1 || n > 30 {
			t.Errorf("episode length: want in [1, 30] have(%v)", n)
		}
		if buf.Len()-before != n {
			t.Errorf("stored steps: want(%v) have(%v)", n, buf.Len()-before)
		}
	}

	states, _ := buf.States()
	rows, _ := states.Dims()
	for i := 0; i < rows; i++ {
		if p := states.At(i, 0); p <= -1 || p >= 1 {
			t.Errorf("state %v: position %v outside the walk", i, p)
		}
	}

	returns, _ := buf.Returns()
	for i, r := range returns {
		if r < -1 || r > 1 {
			t.Errorf("return %v: want in [-1, 1] have(%v)", i, r)
		}
	}
}

func TestWalkSeeded(t *testing.T) {
	a, b := newWalk(3, 0.2, 10), newWalk(3, 0.2, 10)
	pa, pb := 0.0, 0.0
	for i := 0; i < 50; i++ {
		pa, _, _ = a.step(pa)
		pb, _, _ = b.step(pb)
		if pa != pb {
			t.Fatalf("step %v: walks with the same seed diverged", i)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	config, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if config.Baseline == nil || config.LearningRate <= 0 {
		t.Errorf("default config: have %+v", config)
	}

	dir, err := ioutil.TempDir("", "baseline")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "config.json")
	err = ioutil.WriteFile(path, []byte(`{
		"baseline": {"type": "baseline.MLP", "size": 4, "repeat_update": 2},
		"optimizer": {"type": "solver.RMSProp"},
		"learning_rate": 0.05
	}`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	config, err = loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.LearningRate != 0.05 {
		t.Errorf("learning rate: want(0.05) have(%v)", config.LearningRate)
	}
	if config.Optimizer == nil || config.Optimizer.Type != "solver.RMSProp" {
		t.Errorf("optimizer: have %v", config.Optimizer)
	}
	if size, _ := config.Baseline.Kwargs.Int("size", 0); size != 4 {
		t.Errorf("size: want(4) have(%v)", size)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestFit(t *testing.T) {
	var out bytes.Buffer
	opts := fitOptions{
		config: fileConfig{
			Baseline: resolver.NewDescriptor("baseline.MLP", resolver.Kwargs{
				"size":          8,
				"repeat_update": 5,
			}),
			LearningRate: 0.01,
		},
		iterations: 3,
		episodes:   2,
		steps:      20,
		stepSize:   0.3,
		discount:   0.9,
		lambda:     0.9,
		seed:       11,
		out:        &out,
		logger:     log.New(ioutil.Discard, "", 0),
	}
	if err := fit(opts); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(evalPositions) {
		t.Errorf("evaluated positions: want(%v) have(%v)", len(evalPositions),
			len(lines))
	}

	opts.iterations = 0
	if err := fit(opts); err == nil {
		t.Error("want error for no iterations")
	}
}
