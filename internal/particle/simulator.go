package particle

import (
	"math"

	"github.com/decker502/fxbake/pkg/utils"
)

const (
	// vortexRadialFraction is the share of vortex strength pulling toward the center.
	vortexRadialFraction = 0.3
	// vortexFalloff scales the inverse-distance attenuation 1/(1+d·k).
	vortexFalloff = 0.01
)

// Simulator owns a particle population and steps its physics.
//
// A Simulator is not safe for concurrent use. A live preview and a bake must
// each use their own Simulator and their own Rand.
type Simulator struct {
	settings ParticleSettings
	rng      *Rand

	particles []*Particle

	clock      float64
	spawnAcc   float64
	burstCycle int
	lastBurst  float64
	nextID     int
}

// NewSimulator creates a simulator for settings drawing randomness from rng.
func NewSimulator(settings ParticleSettings, rng *Rand) *Simulator {
	return &Simulator{
		settings: settings,
		rng:      rng,
	}
}

// Settings returns the settings the simulator runs with.
func (s *Simulator) Settings() ParticleSettings {
	return s.settings
}

// Reset clears the population and all emission state and rewinds the random
// stream, so the next run starts again from particle id 0.
func (s *Simulator) Reset() {
	s.particles = s.particles[:0]
	s.clock = 0
	s.spawnAcc = 0
	s.burstCycle = 0
	s.lastBurst = 0
	s.nextID = 0
	s.rng.Reset()
}

// Particles returns the live particles. The slice is owned by the simulator
// and is only valid until the next Update or Reset.
func (s *Simulator) Particles() []*Particle {
	return s.particles
}

// Clock returns the simulated time in seconds.
func (s *Simulator) Clock() float64 {
	return s.clock
}

// SpawnCount returns the number of particles spawned since the last Reset.
func (s *Simulator) SpawnCount() int {
	return s.nextID
}

// Update advances the simulation by dt seconds.
//
// The step runs in three phases:
//  1. advance the clock
//  2. spawn new particles according to the emission type
//  3. age, kill and integrate every live particle
func (s *Simulator) Update(dt float64) {
	s.clock += dt
	s.updateEmission(dt)
	s.updateParticles(dt)
}

func (s *Simulator) updateEmission(dt float64) {
	em := &s.settings.Emitter

	switch em.Type {
	case EmitContinuous:
		s.spawnAtRate(dt)

	case EmitDuration:
		if s.clock >= em.DurationStart && s.clock <= em.DurationEnd {
			s.spawnAtRate(dt)
		}

	case EmitBurst:
		for s.burstCycle < em.BurstCycles {
			if s.burstCycle > 0 && s.clock-s.lastBurst < em.BurstInterval {
				break
			}
			for i := 0; i < em.BurstCount; i++ {
				if !s.spawnParticle() {
					break
				}
			}
			if s.burstCycle == 0 {
				s.lastBurst = s.clock
			} else {
				s.lastBurst += em.BurstInterval
			}
			s.burstCycle++
		}
	}
}

// spawnAtRate spawns at a fixed interval, carrying the remainder to the next
// step so the spawn times do not drift with the step size.
func (s *Simulator) spawnAtRate(dt float64) {
	rate := s.settings.Emitter.Rate
	if rate <= 0 {
		return
	}
	interval := 1 / rate

	s.spawnAcc += dt
	for s.spawnAcc >= interval && s.canSpawn() {
		s.spawnParticle()
		s.spawnAcc -= interval
	}
}

func (s *Simulator) canSpawn() bool {
	return len(s.particles) < s.settings.Emitter.MaxParticles
}

// spawnParticle creates one particle. It returns false when the population is full.
func (s *Simulator) spawnParticle() bool {
	if !s.canSpawn() {
		return false
	}

	cfg := &s.settings
	em := &cfg.Emitter

	ox, oy := SampleSpawnOffset(*em, s.rng)

	spread := math.Abs(em.AngleSpread)
	angle := em.Angle + s.rng.Range(0, spread) - spread/2
	speed := s.rng.Range(em.SpeedMin, em.SpeedMax)
	rad := angle * math.Pi / 180

	life := s.rng.Range(cfg.LifetimeMin, cfg.LifetimeMax)

	p := &Particle{
		ID:        s.nextID,
		X:         em.X + ox,
		Y:         em.Y + oy,
		VX:        math.Cos(rad) * speed,
		VY:        math.Sin(rad) * speed, // Y轴向下为正，与屏幕坐标系一致
		Life:      life,
		MaxLife:   life,
		BaseSpeed: speed,
		Color:     cfg.StartColor,
		Alpha:     cfg.StartAlpha,
		SpawnTime: s.clock,
	}
	s.applyScale(p, cfg.SizeCurve.Evaluate(0))

	s.nextID++
	s.particles = append(s.particles, p)
	return true
}

func (s *Simulator) applyScale(p *Particle, scale float64) {
	p.Scale = scale
	if s.settings.NonUniformScale {
		p.ScaleX = scale * s.settings.ScaleRatioX
		p.ScaleY = scale * s.settings.ScaleRatioY
	} else {
		p.ScaleX = scale
		p.ScaleY = scale
	}
}

// updateParticles walks the population backwards so dead particles can be
// removed in place.
func (s *Simulator) updateParticles(dt float64) {
	for i := len(s.particles) - 1; i >= 0; i-- {
		p := s.particles[i]
		p.Life -= dt
		if p.Life <= 0 {
			s.particles = append(s.particles[:i], s.particles[i+1:]...)
			continue
		}
		s.integrate(p, dt)
	}
}

func (s *Simulator) integrate(p *Particle, dt float64) {
	cfg := &s.settings
	t := p.Age()

	s.applyScale(p, cfg.SizeCurve.Evaluate(t))

	// Gravity, modulated by the weight curve
	p.VY += cfg.Gravity * cfg.WeightCurve.Evaluate(t) * dt

	// Noise field
	if strength := cfg.NoiseCurve.Evaluate(t); strength != 0 {
		nt := s.clock * cfg.NoiseSpeed
		nx, ny := Noise2D(p.X*cfg.NoiseFrequency+nt, p.Y*cfg.NoiseFrequency+nt, nt)
		p.VX += nx * strength * dt
		p.VY += ny * strength * dt
	}

	// Attraction toward a fixed point
	if pull := cfg.AttractionCurve.Evaluate(t); pull != 0 {
		dx, dy := cfg.AttractionX-p.X, cfg.AttractionY-p.Y
		if dist := math.Hypot(dx, dy); dist > 0 {
			p.VX += dx / dist * pull * dt
			p.VY += dy / dist * pull * dt
		}
	}

	// Vortex: tangential swirl plus a weaker radial pull, both fading with distance
	if cfg.VortexStrength != 0 {
		dx, dy := p.X-cfg.VortexX, p.Y-cfg.VortexY
		if dist := math.Hypot(dx, dy); dist > 0 {
			ux, uy := dx/dist, dy/dist
			falloff := 1 / (1 + dist*vortexFalloff)
			tangential := cfg.VortexStrength * falloff
			radial := cfg.VortexStrength * vortexRadialFraction * falloff
			p.VX += (-uy*tangential - ux*radial) * dt
			p.VY += (ux*tangential - uy*radial) * dt
		}
	}

	// Drag
	if cfg.Drag > 0 {
		keep := math.Max(0, 1-cfg.Drag*dt)
		p.VX *= keep
		p.VY *= keep
	}

	speedMul := cfg.SpeedCurve.Evaluate(t)
	p.X += p.VX * speedMul * dt
	p.Y += p.VY * speedMul * dt

	// Spin and angular velocity both accumulate
	p.Rotation += cfg.SpinCurve.Evaluate(t)*dt + cfg.AngularVelocityCurve.Evaluate(t)*dt

	p.Alpha = utils.Lerp(cfg.StartAlpha, cfg.EndAlpha, t)
	p.Color = Color{
		R: utils.Lerp(cfg.StartColor.R, cfg.EndColor.R, t),
		G: utils.Lerp(cfg.StartColor.G, cfg.EndColor.G, t),
		B: utils.Lerp(cfg.StartColor.B, cfg.EndColor.B, t),
	}
}
