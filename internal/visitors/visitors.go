// Package visitors runs the reader actors that ride the elevator and wander
// floors. They are flavor: the economy counts readers per minute and never
// looks at this feed.
package visitors

import (
	"fmt"
	"math/rand"
	"time"
)

// State is where a reader is in its visit.
type State uint8

const (
	Waiting State = iota // in the lobby, car not yet moving
	Riding               // in the elevator
	Arrived              // walking or reading on its floor
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Riding:
		return "riding"
	case Arrived:
		return "arrived"
	}
	return "unknown"
}

// Type selects a reader's look.
type Type uint8

const (
	Kid Type = iota
	Teen
	Adult
	Senior
	Student
	VIP
	NumTypes
)

var typeNames = [NumTypes]string{"kid", "teen", "adult", "senior", "student", "vip"}
var typeEmoji = [NumTypes]string{"🧒", "🧑", "🧑‍💼", "🧓", "🧑‍🎓", "🤩"}

func (t Type) String() string {
	if t < NumTypes {
		return typeNames[t]
	}
	return "unknown"
}

// Emoji is the glyph drawn in the elevator car.
func (t Type) Emoji() string {
	if t < NumTypes {
		return typeEmoji[t]
	}
	return "🙂"
}

// vipChance is the probability a new reader is a VIP.
const vipChance = 0.05

// Reader is one visitor. ArrivalTime is when the elevator reaches the
// reader's floor.
type Reader struct {
	ID          string
	FloorID     string
	State       State
	Type        Type
	Emoji       string
	ArrivalTime time.Time

	travel  time.Duration
	leaveAt time.Time
}

// SpawnTime is when the reader's elevator ride starts.
func (r Reader) SpawnTime() time.Time { return r.ArrivalTime.Add(-r.travel) }

// TravelTime is the elevator ride length for a trip past n floors.
func TravelTime(n int) time.Duration {
	return 2*time.Second + time.Duration(n)*500*time.Millisecond
}

// Stop is a floor readers may be sent to. Index is the floor's creation
// index, 0 being the bottom floor.
type Stop struct {
	FloorID          string
	Index            int
	ReadersPerMinute int
}

type Options struct {
	SpawnInterval time.Duration
	WaitTime      time.Duration
	MaxPerFloor   int
	MinDwell      time.Duration
	MaxDwell      time.Duration
}

// Feed owns the live readers.
type Feed struct {
	opts      Options
	rng       *rand.Rand
	readers   []*Reader
	nextSpawn time.Time
	seq       int

	// OnArrive, when set, is called once per reader as it steps out of
	// the elevator.
	OnArrive func(Reader)
}

func NewFeed(opts Options, rng *rand.Rand) *Feed {
	return &Feed{opts: opts, rng: rng}
}

// capacity is how many readers a floor draws at once: one per five
// readers per minute, capped by MaxPerFloor.
func (f *Feed) capacity(s Stop) int {
	return min(f.opts.MaxPerFloor, (s.ReadersPerMinute+4)/5)
}

// Step advances every reader to now and spawns at most one new one.
func (f *Feed) Step(now time.Time, stops []Stop) {
	kept := f.readers[:0]
	for _, r := range f.readers {
		if r.State == Waiting && !now.Before(r.SpawnTime()) {
			r.State = Riding
		}
		if r.State == Riding && !now.Before(r.ArrivalTime) {
			r.State = Arrived
			r.leaveAt = r.ArrivalTime.Add(f.dwell())
			if f.OnArrive != nil {
				f.OnArrive(*r)
			}
		}
		if r.State == Arrived && !now.Before(r.leaveAt) {
			continue
		}
		kept = append(kept, r)
	}
	clear(f.readers[len(kept):])
	f.readers = kept

	if now.Before(f.nextSpawn) {
		return
	}
	f.nextSpawn = now.Add(f.opts.SpawnInterval)
	if s, ok := f.pickStop(stops); ok {
		f.spawn(now, s)
	}
}

func (f *Feed) dwell() time.Duration {
	span := f.opts.MaxDwell - f.opts.MinDwell
	if span <= 0 {
		return f.opts.MinDwell
	}
	return f.opts.MinDwell + time.Duration(f.rng.Int63n(int64(span)+1))
}

func (f *Feed) pickStop(stops []Stop) (Stop, bool) {
	var open []Stop
	for _, s := range stops {
		if f.OnFloor(s.FloorID) < f.capacity(s) {
			open = append(open, s)
		}
	}
	if len(open) == 0 {
		return Stop{}, false
	}
	return open[f.rng.Intn(len(open))], true
}

func (f *Feed) spawn(now time.Time, s Stop) {
	f.seq++
	t := Type(f.rng.Intn(int(VIP)))
	if f.rng.Float64() < vipChance {
		t = VIP
	}
	travel := TravelTime(s.Index + 1)
	f.readers = append(f.readers, &Reader{
		ID:          fmt.Sprintf("reader_%d", f.seq),
		FloorID:     s.FloorID,
		State:       Waiting,
		Type:        t,
		Emoji:       t.Emoji(),
		ArrivalTime: now.Add(f.opts.WaitTime + travel),
		travel:      travel,
	})
}

// OnFloor counts the readers headed to or already on a floor.
func (f *Feed) OnFloor(floorID string) int {
	n := 0
	for _, r := range f.readers {
		if r.FloorID == floorID {
			n++
		}
	}
	return n
}

// Readers returns copies of the live readers, oldest first.
func (f *Feed) Readers() []Reader {
	out := make([]Reader, len(f.readers))
	for i, r := range f.readers {
		out[i] = *r
	}
	return out
}

// Len is the number of live readers.
func (f *Feed) Len() int { return len(f.readers) }
