package particle

import (
	"math"
	"reflect"
	"testing"
)

func testSettings() ParticleSettings {
	s := DefaultSettings()
	s.Seed = 42
	s.LifetimeMin = 10
	s.LifetimeMax = 10
	return s
}

func runSteps(sim *Simulator, steps int, dt float64, check func(step int)) {
	for i := 0; i < steps; i++ {
		sim.Update(dt)
		if check != nil {
			check(i)
		}
	}
}

// TestSimulator_MaxParticles verifies the population bound for every emission type
func TestSimulator_MaxParticles(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*EmitterConfig)
	}{
		{"Continuous", func(e *EmitterConfig) { e.Type = EmitContinuous; e.Rate = 500 }},
		{"Burst", func(e *EmitterConfig) {
			e.Type = EmitBurst
			e.BurstCount = 30
			e.BurstCycles = 10
			e.BurstInterval = 0.05
		}},
		{"Duration", func(e *EmitterConfig) {
			e.Type = EmitDuration
			e.Rate = 500
			e.DurationStart = 0
			e.DurationEnd = 5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.Emitter.MaxParticles = 25
			tt.setup(&s.Emitter)

			sim := NewSimulator(s, NewRand(s.Seed))
			reached := false
			runSteps(sim, 120, 1.0/30, func(step int) {
				n := len(sim.Particles())
				if n > 25 {
					t.Fatalf("step %d: %d particles, max 25", step, n)
				}
				if n == 25 {
					reached = true
				}
			})
			if !reached {
				t.Errorf("population never reached the bound")
			}
		})
	}
}

func TestSimulator_BurstTotal(t *testing.T) {
	tests := []struct {
		name         string
		cycles       int
		count        int
		maxParticles int
		want         int
	}{
		{"Uncapped", 3, 5, 1000, 15},
		{"Single cycle", 1, 7, 1000, 7},
		{"Capped", 3, 5, 8, 8},
		{"Zero cycles", 0, 5, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.Emitter.Type = EmitBurst
			s.Emitter.BurstCycles = tt.cycles
			s.Emitter.BurstCount = tt.count
			s.Emitter.BurstInterval = 0.1
			s.Emitter.MaxParticles = tt.maxParticles

			sim := NewSimulator(s, NewRand(s.Seed))
			runSteps(sim, 300, 1.0/30, nil)
			if got := sim.SpawnCount(); got != tt.want {
				t.Errorf("SpawnCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSimulator_FirstBurstImmediate(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 2
	s.Emitter.BurstCount = 4
	s.Emitter.BurstInterval = 1

	sim := NewSimulator(s, NewRand(s.Seed))
	sim.Update(1.0 / 60)
	if got := sim.SpawnCount(); got != 4 {
		t.Errorf("after first step SpawnCount() = %d, want 4", got)
	}
}

func TestSimulator_DurationWindow(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitDuration
	s.Emitter.Rate = 50
	s.Emitter.MaxParticles = 1000
	s.Emitter.DurationStart = 0.5
	s.Emitter.DurationEnd = 1.0

	sim := NewSimulator(s, NewRand(s.Seed))
	seen := map[int]bool{}
	runSteps(sim, 60, 1.0/30, func(int) {
		for _, p := range sim.Particles() {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			if p.SpawnTime < 0.5 || p.SpawnTime > 1.0 {
				t.Errorf("particle %d spawned at %.4f, outside [0.5, 1.0]", p.ID, p.SpawnTime)
			}
		}
	})
	if len(seen) == 0 {
		t.Fatal("no particles spawned inside the window")
	}
}

func TestSimulator_ContinuousScenario(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitContinuous
	s.Emitter.Rate = 50
	s.Emitter.MaxParticles = 500
	s.Duration = 2
	s.FPS = 30

	frames := Bake(s, NewRand(s.Seed))
	if len(frames) != 60 {
		t.Fatalf("len(frames) = %d, want 60", len(frames))
	}
	n := len(frames[59].Particles)
	if n > 100 || n < 99 {
		t.Errorf("final population = %d, want about 100", n)
	}

	// Growth stops at the bound when lifetimes exceed the run
	s.Emitter.MaxParticles = 40
	frames = Bake(s, NewRand(s.Seed))
	for i, f := range frames {
		if len(f.Particles) > 40 {
			t.Fatalf("frame %d: %d particles, max 40", i, len(f.Particles))
		}
	}
	if got := len(frames[59].Particles); got != 40 {
		t.Errorf("final population = %d, want 40", got)
	}
}

func TestSimulator_Death(t *testing.T) {
	s := testSettings()
	s.LifetimeMin = 0.1
	s.LifetimeMax = 0.1
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 10

	sim := NewSimulator(s, NewRand(s.Seed))
	sim.Update(0.05)
	if got := len(sim.Particles()); got != 10 {
		t.Fatalf("alive after 0.05s = %d, want 10", got)
	}
	sim.Update(0.06)
	if got := len(sim.Particles()); got != 0 {
		t.Errorf("alive after 0.11s = %d, want 0", got)
	}
}

func TestSimulator_IDsMonotonic(t *testing.T) {
	s := testSettings()
	s.LifetimeMin, s.LifetimeMax = 0.2, 0.4
	s.Emitter.Rate = 100

	sim := NewSimulator(s, NewRand(s.Seed))
	last := -1
	runSteps(sim, 90, 1.0/30, func(int) {
		for _, p := range sim.Particles() {
			if p.ID > last {
				last = p.ID
			}
		}
	})
	if last+1 != sim.SpawnCount() {
		t.Errorf("highest id %d, SpawnCount %d", last, sim.SpawnCount())
	}
}

func TestSimulator_ResetIdempotent(t *testing.T) {
	s := testSettings()
	s.LifetimeMin, s.LifetimeMax = 0.3, 1.2
	s.Emitter.Shape = ShapeCircle
	s.Emitter.AngleSpread = 360
	s.NoiseCurve = ConstantCurve(40)
	s.VortexStrength = 30

	sim := NewSimulator(s, NewRand(7))
	sim.Reset()
	first := BakeWith(sim)
	sim.Reset()
	second := BakeWith(sim)

	if len(first) == 0 {
		t.Fatal("bake produced no frames")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("bakes after Reset differ")
	}
	if ids := ParticleIDs(first); len(ids) == 0 || ids[0] != 0 {
		t.Errorf("particle ids = %v, want to start at 0", ids)
	}

	third := Bake(s, NewRand(7))
	if !reflect.DeepEqual(first, third) {
		t.Errorf("independent bake with the same seed differs")
	}
}

func TestSimulator_NonUniformScale(t *testing.T) {
	s := testSettings()
	s.NonUniformScale = true
	s.ScaleRatioX = 2
	s.ScaleRatioY = 0.5
	s.SizeCurve = ConstantCurve(1.5)

	sim := NewSimulator(s, NewRand(s.Seed))
	runSteps(sim, 10, 1.0/30, nil)
	for _, p := range sim.Particles() {
		if p.ScaleX != 3 || p.ScaleY != 0.75 || p.Scale != 1.5 {
			t.Fatalf("particle %d scale = %v/%v/%v", p.ID, p.Scale, p.ScaleX, p.ScaleY)
		}
	}
}

func TestSimulator_SpinAndAngularVelocityAdd(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.SpinCurve = ConstantCurve(90)
	s.AngularVelocityCurve = ConstantCurve(30)

	sim := NewSimulator(s, NewRand(s.Seed))
	runSteps(sim, 10, 0.1, nil)
	p := sim.Particles()[0]
	if math.Abs(p.Rotation-120) > 1e-9 {
		t.Errorf("rotation after 1s = %v, want 120", p.Rotation)
	}
}

func TestSimulator_AlphaAndColorLerp(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.StartAlpha, s.EndAlpha = 1, 0
	s.StartColor = Color{R: 1}
	s.EndColor = Color{B: 1}

	sim := NewSimulator(s, NewRand(s.Seed))
	runSteps(sim, 5, 1, nil) // half of a 10s life
	p := sim.Particles()[0]
	if math.Abs(p.Alpha-0.5) > 1e-9 {
		t.Errorf("alpha = %v, want 0.5", p.Alpha)
	}
	if math.Abs(p.Color.R-0.5) > 1e-9 || math.Abs(p.Color.B-0.5) > 1e-9 {
		t.Errorf("color = %+v, want half blend", p.Color)
	}
}

func TestSimulator_GravityWeight(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.Emitter.SpeedMin, s.Emitter.SpeedMax = 0, 0
	s.Gravity = 100
	s.WeightCurve = ConstantCurve(0)

	sim := NewSimulator(s, NewRand(s.Seed))
	runSteps(sim, 30, 1.0/30, nil)
	if p := sim.Particles()[0]; p.VY != 0 {
		t.Errorf("weightless particle VY = %v, want 0", p.VY)
	}
}

func TestSimulator_Drag(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.Gravity = 0
	s.Drag = 2

	sim := NewSimulator(s, NewRand(s.Seed))
	sim.Update(0.1)
	v0 := math.Hypot(sim.Particles()[0].VX, sim.Particles()[0].VY)
	sim.Update(0.1)
	v1 := math.Hypot(sim.Particles()[0].VX, sim.Particles()[0].VY)
	if math.Abs(v1-v0*0.8) > 1e-9 {
		t.Errorf("speed after drag = %v, want %v", v1, v0*0.8)
	}
}

func TestSimulator_VortexSwirls(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.Emitter.SpeedMin, s.Emitter.SpeedMax = 0, 0
	s.Gravity = 0
	s.Emitter.X, s.Emitter.Y = 100, 0
	s.VortexX, s.VortexY = 0, 0
	s.VortexStrength = 50

	sim := NewSimulator(s, NewRand(s.Seed))
	sim.Update(0.1)
	p := sim.Particles()[0]
	// Tangential (+Y) dominates the inward radial (-X) pull
	if p.VY <= 0 || p.VX >= 0 || math.Abs(p.VY) <= math.Abs(p.VX) {
		t.Errorf("vortex velocity = (%v, %v)", p.VX, p.VY)
	}
}

func TestSimulator_AttractionPulls(t *testing.T) {
	s := testSettings()
	s.Emitter.Type = EmitBurst
	s.Emitter.BurstCycles = 1
	s.Emitter.BurstCount = 1
	s.Emitter.SpeedMin, s.Emitter.SpeedMax = 0, 0
	s.Gravity = 0
	s.Emitter.X, s.Emitter.Y = 0, 0
	s.AttractionX, s.AttractionY = 0, 100
	s.AttractionCurve = ConstantCurve(10)

	sim := NewSimulator(s, NewRand(s.Seed))
	sim.Update(0.5)
	p := sim.Particles()[0]
	if math.Abs(p.VY-5) > 1e-9 || p.VX != 0 {
		t.Errorf("attraction velocity = (%v, %v), want (0, 5)", p.VX, p.VY)
	}
}

func TestNoise2D_Deterministic(t *testing.T) {
	x1, y1 := Noise2D(1.3, -4.2, 0.7)
	x2, y2 := Noise2D(1.3, -4.2, 0.7)
	if x1 != x2 || y1 != y2 {
		t.Errorf("Noise2D not deterministic")
	}
	if l := math.Hypot(x1, y1); math.Abs(l-1) > 1e-9 {
		t.Errorf("Noise2D length = %v, want 1", l)
	}
}
