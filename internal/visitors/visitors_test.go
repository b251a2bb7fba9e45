package visitors

import (
	"math/rand"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		SpawnInterval: 3 * time.Second,
		WaitTime:      time.Second,
		MaxPerFloor:   4,
		MinDwell:      20 * time.Second,
		MaxDwell:      20 * time.Second,
	}
}

func TestTravelTime(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2500 * time.Millisecond},
		{4, 4 * time.Second},
	} {
		if got := TravelTime(tc.n); got != tc.want {
			t.Errorf("TravelTime(%d) = %v; want %v", tc.n, got, tc.want)
		}
	}
}

func TestTypeTablesComplete(t *testing.T) {
	for ty := Type(0); ty < NumTypes; ty++ {
		if ty.String() == "unknown" || ty.Emoji() == "" {
			t.Errorf("type %d has no name or emoji", ty)
		}
	}
}

func TestReaderLifecycle(t *testing.T) {
	f := NewFeed(testOptions(), rand.New(rand.NewSource(1)))
	var arrived []Reader
	f.OnArrive = func(r Reader) { arrived = append(arrived, r) }
	stops := []Stop{{FloorID: "f0", Index: 0, ReadersPerMinute: 6}}

	f.Step(t0, stops)
	if f.Len() != 1 {
		t.Fatalf("readers = %d; want 1", f.Len())
	}
	r := f.Readers()[0]
	if r.State != Waiting || r.FloorID != "f0" {
		t.Errorf("reader = %v on %q; want waiting on f0", r.State, r.FloorID)
	}
	// Wait 1s then ride TravelTime(1) = 2.5s.
	if want := t0.Add(3500 * time.Millisecond); !r.ArrivalTime.Equal(want) {
		t.Errorf("arrival = %v; want %v", r.ArrivalTime, want)
	}
	if want := t0.Add(time.Second); !r.SpawnTime().Equal(want) {
		t.Errorf("spawn = %v; want %v", r.SpawnTime(), want)
	}

	f.Step(t0.Add(time.Second), stops)
	if got := f.Readers()[0].State; got != Riding {
		t.Errorf("state at 1s = %v; want riding", got)
	}

	f.Step(t0.Add(3500*time.Millisecond), stops)
	if got := f.readers[0].State; got != Arrived {
		t.Errorf("state at 3.5s = %v; want arrived", got)
	}
	if len(arrived) != 1 || arrived[0].ID != r.ID {
		t.Errorf("OnArrive calls = %v; want one for %s", arrived, r.ID)
	}

	f.Step(t0.Add(3500*time.Millisecond+20*time.Second), nil)
	for _, got := range f.Readers() {
		if got.ID == r.ID {
			t.Errorf("reader %s still present after dwell", r.ID)
		}
	}
}

func TestSpawnRespectsInterval(t *testing.T) {
	f := NewFeed(testOptions(), rand.New(rand.NewSource(2)))
	stops := []Stop{{FloorID: "f0", ReadersPerMinute: 100}}
	f.Step(t0, stops)
	f.Step(t0.Add(time.Second), stops)
	f.Step(t0.Add(2*time.Second), stops)
	if f.Len() != 1 {
		t.Errorf("readers = %d; want 1 before the interval passes", f.Len())
	}
	f.Step(t0.Add(3*time.Second), stops)
	if f.Len() != 2 {
		t.Errorf("readers = %d; want 2", f.Len())
	}
}

func TestCapacityFollowsReaders(t *testing.T) {
	opts := testOptions()
	opts.MinDwell, opts.MaxDwell = time.Hour, time.Hour
	f := NewFeed(opts, rand.New(rand.NewSource(3)))
	stops := []Stop{
		{FloorID: "empty", ReadersPerMinute: 0},
		{FloorID: "small", ReadersPerMinute: 6},
	}
	for i := range 20 {
		f.Step(t0.Add(time.Duration(i)*opts.SpawnInterval), stops)
	}
	if n := f.OnFloor("empty"); n != 0 {
		t.Errorf("readers on empty floor = %d; want 0", n)
	}
	// (6+4)/5 = 2
	if n := f.OnFloor("small"); n != 2 {
		t.Errorf("readers on small floor = %d; want 2", n)
	}
}

func TestCapacityCappedByMaxPerFloor(t *testing.T) {
	opts := testOptions()
	opts.MinDwell, opts.MaxDwell = time.Hour, time.Hour
	f := NewFeed(opts, rand.New(rand.NewSource(4)))
	stops := []Stop{{FloorID: "big", ReadersPerMinute: 500}}
	for i := range 20 {
		f.Step(t0.Add(time.Duration(i)*opts.SpawnInterval), stops)
	}
	if n := f.OnFloor("big"); n != opts.MaxPerFloor {
		t.Errorf("readers = %d; want %d", n, opts.MaxPerFloor)
	}
}

func TestDwellWithinBounds(t *testing.T) {
	opts := testOptions()
	opts.MinDwell, opts.MaxDwell = 10*time.Second, 15*time.Second
	f := NewFeed(opts, rand.New(rand.NewSource(5)))
	for range 100 {
		d := f.dwell()
		if d < opts.MinDwell || d > opts.MaxDwell {
			t.Fatalf("dwell = %v; want within [%v, %v]", d, opts.MinDwell, opts.MaxDwell)
		}
	}
}

func TestHigherFloorsRideLonger(t *testing.T) {
	opts := testOptions()
	opts.MaxPerFloor = 1
	f := NewFeed(opts, rand.New(rand.NewSource(6)))
	f.Step(t0, []Stop{{FloorID: "top", Index: 3, ReadersPerMinute: 5}})
	r := f.Readers()[0]
	if got := r.ArrivalTime.Sub(r.SpawnTime()); got != TravelTime(4) {
		t.Errorf("ride = %v; want %v", got, TravelTime(4))
	}
}
