// Package construction tracks floors that are still being built. Build
// status is session state: a floor loaded from a save is always ready.
package construction

import (
	"math"
	"time"
)

// Status is a floor's build window.
type Status struct {
	Building bool
	Start    time.Time
	End      time.Time
}

// Progress is the completed fraction of the build at now, in [0,1].
func (s Status) Progress(now time.Time) float64 {
	total := s.End.Sub(s.Start)
	if !s.Building || total <= 0 {
		return 1
	}
	p := float64(now.Sub(s.Start)) / float64(total)
	return math.Max(0, math.Min(1, p))
}

// Remaining is the whole seconds left, rounded up.
func (s Status) Remaining(now time.Time) int {
	if !s.Building || !now.Before(s.End) {
		return 0
	}
	return int(math.Ceil(s.End.Sub(now).Seconds()))
}

type Tracker struct {
	duration time.Duration
	builds   map[string]Status
}

func NewTracker(duration time.Duration) *Tracker {
	return &Tracker{duration: duration, builds: make(map[string]Status)}
}

// Start begins building floorID at now. A zero duration finishes at once.
func (t *Tracker) Start(floorID string, now time.Time) {
	if t.duration <= 0 {
		return
	}
	t.builds[floorID] = Status{Building: true, Start: now, End: now.Add(t.duration)}
}

// Status reports a floor's build window. Unknown floors are ready.
func (t *Tracker) Status(floorID string) Status {
	return t.builds[floorID]
}

// Building reports whether floorID is still under construction.
func (t *Tracker) Building(floorID string) bool {
	return t.builds[floorID].Building
}

// Step finishes every build whose end has passed and returns their ids.
func (t *Tracker) Step(now time.Time) []string {
	var done []string
	for id, s := range t.builds {
		if !now.Before(s.End) {
			done = append(done, id)
			delete(t.builds, id)
		}
	}
	return done
}
