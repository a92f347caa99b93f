package sim

import (
	"testing"
)

func TestSchedulerOrder(t *testing.T) {
	var got []string
	s := NewScheduler(
		SystemFunc(func(Tick) { got = append(got, "a") }),
	)
	s.Add(nil)
	s.Add(SystemFunc(func(Tick) { got = append(got, "b") }))
	s.Update(Tick{})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("order = %v", got)
	}
	if len(s.Systems()) != 2 {
		t.Fatalf("systems = %d", len(s.Systems()))
	}
}

func TestLoopAccumulator(t *testing.T) {
	tests := []struct {
		name      string
		frames    []float64
		wantSteps []int
	}{
		{"carry_remainder", []float64{0.625, 0.625}, []int{2, 3}},
		{"small_frames", []float64{0.125, 0.125, 0.125}, []int{0, 1, 0}},
		{"ignores_bad_dt", []float64{-1, 0}, []int{0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLoop(0.25, 8)
			for i, dt := range tc.frames {
				if got := l.Advance(dt); got != tc.wantSteps[i] {
					t.Fatalf("frame %d: steps = %d, want %d", i, got, tc.wantSteps[i])
				}
			}
		})
	}
}

func TestLoopPhaseOrder(t *testing.T) {
	l := NewLoop(0.25, 8)
	var trace []string
	var frameNow, frameDt float64
	l.Physics.Add(SystemFunc(func(tk Tick) {
		if tk.Dt != 0.25 {
			t.Fatalf("physics dt = %v", tk.Dt)
		}
		trace = append(trace, "physics")
	}))
	l.Frame.Add(SystemFunc(func(tk Tick) {
		frameNow, frameDt = tk.Now, tk.Dt
		trace = append(trace, "frame")
	}))

	l.Advance(0.5)
	want := []string{"physics", "physics", "frame"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
	if frameNow != 0.5 || frameDt != 0.5 || l.Now() != 0.5 {
		t.Fatalf("frame tick now=%v dt=%v", frameNow, frameDt)
	}
}

func TestLoopDropsBacklog(t *testing.T) {
	l := NewLoop(0.25, 2)
	if got := l.Advance(10); got != 2 {
		t.Fatalf("steps = %d, want capped at 2", got)
	}
	if l.Alpha() != 0 {
		t.Fatalf("backlog should be dropped, alpha = %v", l.Alpha())
	}
	if l.Frames() != 1 || l.Steps() != 2 {
		t.Fatalf("frames=%d steps=%d", l.Frames(), l.Steps())
	}
}
