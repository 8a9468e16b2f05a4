package app

import (
	"testing"

	"github.com/large-farva/ntn-handover-core/internal/config"
)

func testConfigWithEventOverrides() config.Config {
	cfg := config.Default()
	cfg.Events.HysteresisDB = 2.5
	cfg.Events.A4ThresholdDBm = -102
	return cfg
}

func TestAppendCapped(t *testing.T) {
	var s []int
	for i := 0; i < 5; i++ {
		s = appendCapped(s, i, 3)
	}
	if len(s) != 3 {
		t.Fatalf("len = %d, want 3", len(s))
	}
	if s[0] != 2 || s[2] != 4 {
		t.Fatalf("unexpected tail contents: %v", s)
	}
}

func TestAppendCappedUnderLimit(t *testing.T) {
	var s []int
	s = appendCapped(s, 1, 5)
	s = appendCapped(s, 2, 5)
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
}

func TestLimitTail(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}
	if got := limitTail(s, 0); len(got) != 5 {
		t.Fatalf("limit 0 should return everything, got %v", got)
	}
	got := limitTail(s, 2)
	if len(got) != 2 || got[0] != 4 || got[1] != 5 {
		t.Fatalf("limitTail(s, 2) = %v, want [4 5]", got)
	}
	if got := limitTail(s, 100); len(got) != 5 {
		t.Fatalf("limit beyond length should return everything, got %v", got)
	}
}

func TestAppendLogCapsAt1000(t *testing.T) {
	a := &App{}
	for i := 0; i < 1100; i++ {
		a.appendLog("info", "tick")
	}
	if len(a.logBuf) != 1000 {
		t.Fatalf("logBuf len = %d, want 1000", len(a.logBuf))
	}
}

func TestEventConfigFromAppliesOverrides(t *testing.T) {
	cfg := testConfigWithEventOverrides()
	ec := eventConfigFrom(cfg)
	if ec.HysteresisDB != cfg.Events.HysteresisDB {
		t.Fatalf("HysteresisDB = %v, want %v", ec.HysteresisDB, cfg.Events.HysteresisDB)
	}
	if ec.A4ThresholdDBm != cfg.Events.A4ThresholdDBm {
		t.Fatalf("A4ThresholdDBm = %v, want %v", ec.A4ThresholdDBm, cfg.Events.A4ThresholdDBm)
	}
}

func TestAccessWeightsFrom(t *testing.T) {
	cfg := testConfigWithEventOverrides()
	cfg.Access.WeightSignal = 0.5
	cfg.Access.WeightBalance = 0.1
	w := accessWeightsFrom(cfg)
	if w.Signal != 0.5 || w.Balance != 0.1 {
		t.Fatalf("unexpected weights: %+v", w)
	}
}

func TestLoadUEsOrDefaultEmptyPath(t *testing.T) {
	ues, err := loadUEsOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ues) != 1 || ues[0].ID != "ue-1" {
		t.Fatalf("unexpected default roster: %+v", ues)
	}
}
