package diag

import "testing"

func TestRateWindowAdmitsUpToCeiling(t *testing.T) {
	var w rateWindow
	for i := 0; i < 3; i++ {
		d := w.admit(1000, 300, 3)
		if !d.ok {
			t.Fatalf("admit %d: ok = false, want true", i+1)
		}
		if i < 2 && d.last {
			t.Fatalf("admit %d: last = true before ceiling", i+1)
		}
	}
}

func TestRateWindowLastAdmissionCarriesDeadline(t *testing.T) {
	var w rateWindow
	w.admit(1000, 300, 2)
	d := w.admit(1000, 300, 2)
	if !d.ok || !d.last {
		t.Fatalf("ceiling admission: ok=%v last=%v, want true/true", d.ok, d.last)
	}
	if d.until != 1300 {
		t.Fatalf("until = %d, want 1300", d.until)
	}
}

func TestRateWindowSuppressesBeyondCeiling(t *testing.T) {
	var w rateWindow
	for i := 0; i < 2; i++ {
		w.admit(1000, 300, 2)
	}
	for i := 0; i < 5; i++ {
		d := w.admit(1000+int64(i), 300, 2)
		if d.ok {
			t.Fatalf("admit beyond ceiling: ok = true, want false")
		}
		if d.resumed != 0 {
			t.Fatalf("admit beyond ceiling: resumed = %d, want 0", d.resumed)
		}
	}
	if w.skipped != 5 {
		t.Fatalf("skipped = %d, want 5", w.skipped)
	}
}

func TestRateWindowRolloverReportsSkipsOnce(t *testing.T) {
	var w rateWindow
	w.admit(1000, 300, 1)
	w.admit(1001, 300, 1)
	w.admit(1002, 300, 1)

	d := w.admit(1300, 300, 1)
	if !d.ok {
		t.Fatalf("post-window admit: ok = false, want true")
	}
	if d.resumed != 2 {
		t.Fatalf("resumed = %d, want 2", d.resumed)
	}

	d = w.admit(1600, 300, 1)
	if d.resumed != 0 {
		t.Fatalf("second rollover without skips: resumed = %d, want 0", d.resumed)
	}
}

func TestRateWindowIgnoresBackwardClock(t *testing.T) {
	var w rateWindow
	w.admit(1000, 300, 2)
	w.admit(1000, 300, 2)

	d := w.admit(900, 300, 2)
	if d.ok {
		t.Fatalf("backward clock admit: ok = true, want false (window must not roll over)")
	}
	if w.start != 1000 {
		t.Fatalf("window start = %d, want 1000", w.start)
	}
}
