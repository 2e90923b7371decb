package particle

import (
	"math"
	"sort"
)

// Snapshot is the transform of one particle at one baked frame.
// Positions are relative to the emitter origin.
type Snapshot struct {
	ID       int
	X, Y     float64
	Rotation float64 // degrees
	Scale    float64
	ScaleX   float64
	ScaleY   float64
	Alpha    float64
	Color    Color
}

// BakedFrame holds the particles alive at one tick, sorted by ID.
type BakedFrame struct {
	Time      float64
	Particles []Snapshot
}

// Lookup returns the snapshot of particle id, if it was alive in this frame.
func (f *BakedFrame) Lookup(id int) (Snapshot, bool) {
	i := sort.Search(len(f.Particles), func(i int) bool { return f.Particles[i].ID >= id })
	if i < len(f.Particles) && f.Particles[i].ID == id {
		return f.Particles[i], true
	}
	return Snapshot{}, false
}

// FrameCount returns the number of frames a bake of duration seconds at fps produces.
func FrameCount(duration float64, fps int) int {
	if duration <= 0 || fps <= 0 {
		return 0
	}
	// 容忍浮点误差，避免 2.0*30 被算成 61 帧
	return int(math.Ceil(duration*float64(fps) - 1e-9))
}

// Bake runs a fresh simulator for settings at a fixed timestep of 1/fps and
// records every live particle after each step.
//
// The simulator is private to the bake; rng must not be shared with a
// simulator that is running concurrently.
func Bake(settings ParticleSettings, rng *Rand) []BakedFrame {
	sim := NewSimulator(settings, rng)
	sim.Reset()
	return BakeWith(sim)
}

// BakeWith bakes using an existing simulator from its current state.
// Callers normally Reset the simulator first.
func BakeWith(sim *Simulator) []BakedFrame {
	settings := sim.Settings()
	n := FrameCount(settings.Duration, settings.FPS)
	if n == 0 {
		return nil
	}
	dt := 1 / float64(settings.FPS)
	ox, oy := settings.Emitter.X, settings.Emitter.Y

	frames := make([]BakedFrame, 0, n)
	for i := 0; i < n; i++ {
		sim.Update(dt)

		live := sim.Particles()
		frame := BakedFrame{
			Time:      sim.Clock(),
			Particles: make([]Snapshot, 0, len(live)),
		}
		for _, p := range live {
			frame.Particles = append(frame.Particles, Snapshot{
				ID:       p.ID,
				X:        p.X - ox,
				Y:        p.Y - oy,
				Rotation: p.Rotation,
				Scale:    p.Scale,
				ScaleX:   p.ScaleX,
				ScaleY:   p.ScaleY,
				Alpha:    p.Alpha,
				Color:    p.Color,
			})
		}
		sort.Slice(frame.Particles, func(a, b int) bool {
			return frame.Particles[a].ID < frame.Particles[b].ID
		})
		frames = append(frames, frame)
	}
	return frames
}

// ParticleIDs returns every particle id present in any frame, ascending.
func ParticleIDs(frames []BakedFrame) []int {
	seen := make(map[int]struct{})
	var ids []int
	for i := range frames {
		for _, snap := range frames[i].Particles {
			if _, ok := seen[snap.ID]; !ok {
				seen[snap.ID] = struct{}{}
				ids = append(ids, snap.ID)
			}
		}
	}
	sort.Ints(ids)
	return ids
}
