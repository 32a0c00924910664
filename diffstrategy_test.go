package rendercore

import "testing"

func TestDiffStrategyDefaultChangeRateMatchesPrior(t *testing.T) {
	s := NewDiffStrategy()
	got := s.changeRate()
	want := priorAlpha0 / (priorAlpha0 + priorBeta0)
	if got != want {
		t.Errorf("expected default change rate %v, got %v", want, got)
	}
}

func TestDiffStrategyObserveShiftsTowardObservation(t *testing.T) {
	s := NewDiffStrategy()
	before := s.changeRate()
	for i := 0; i < 20; i++ {
		s.Observe(100, 80) // heavy, consistent churn
	}
	after := s.changeRate()
	if after <= before {
		t.Errorf("expected change rate to rise toward observed churn: before=%v after=%v", before, after)
	}
}

func TestDiffStrategyConservativeAtLeastAsHighAsMean(t *testing.T) {
	s := NewDiffStrategy()
	s.Observe(100, 10)
	mean := s.changeRate()
	s.SetConservative(true)
	p95 := s.changeRate()
	if p95 < mean {
		t.Errorf("expected conservative (p95) estimate >= mean: p95=%v mean=%v", p95, mean)
	}
}

func TestBetaQuantileWHBounded(t *testing.T) {
	cases := []struct{ a, b float64 }{
		{1, 19}, {50, 50}, {0.1, 100}, {100, 0.1},
	}
	for _, c := range cases {
		q := betaQuantileWH(c.a, c.b, 0.95)
		if q < 0 || q > 1 {
			t.Errorf("betaQuantileWH(%v,%v,0.95) = %v, want in [0,1]", c.a, c.b, q)
		}
	}
}

func TestStdNormalQuantileMonotonic(t *testing.T) {
	prev := stdNormalQuantile(0.01)
	for _, p := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
		cur := stdNormalQuantile(p)
		if cur <= prev {
			t.Errorf("expected monotonically increasing quantile, got %v then %v at p=%v", prev, cur, p)
		}
		prev = cur
	}
}

func TestStdNormalQuantileMedianIsZero(t *testing.T) {
	got := stdNormalQuantile(0.5)
	if got < -1e-6 || got > 1e-6 {
		t.Errorf("expected stdNormalQuantile(0.5) ~= 0, got %v", got)
	}
}

func TestDiffStrategyChooseFullForHighChurn(t *testing.T) {
	s := NewDiffStrategy()
	for i := 0; i < 10; i++ {
		s.Observe(100, 95) // near-total churn every frame
	}
	mode := s.Choose(24, 80, 24)
	if mode != DiffModeFull && mode != DiffModeRedraw {
		t.Errorf("expected full-scan or redraw under heavy churn, got %v", mode)
	}
}

func TestDiffStrategyChooseSpanDirtyForSparseLocalizedEdits(t *testing.T) {
	s := NewDiffStrategy()
	for i := 0; i < 10; i++ {
		s.Observe(100, 1) // one cell changes per frame, consistently
	}
	mode := s.Choose(24, 80, 1)
	if mode != DiffModeSpanDirty && mode != DiffModeDirty {
		t.Errorf("expected a localized-scan mode for a single dirty row, got %v", mode)
	}
}

func TestDiffStrategyChooseNoDirtyRowsIsCheap(t *testing.T) {
	s := NewDiffStrategy()
	mode := s.Choose(24, 80, 0)
	if mode == DiffModeRedraw {
		t.Error("expected something cheaper than a full redraw when nothing is dirty")
	}
}
