// Package particle provides the 2D particle simulation used to author and bake
// particle effects.
//
// It contains the lifetime curve evaluator, the emitter and particle settings,
// a seedable simulator that steps particle physics at arbitrary timesteps, and
// the baker that samples the simulator at a fixed frame rate.
package particle

// Shape is the geometric shape particles are spawned from.
type Shape int

const (
	ShapePoint Shape = iota
	ShapeLine
	ShapeCircle
	ShapeRectangle
	ShapeRoundedRect
)

// EmissionMode selects whether a shape spawns particles inside its area or on its outline.
type EmissionMode int

const (
	EmitArea EmissionMode = iota
	EmitEdge
)

// EmissionType controls when particles are spawned.
type EmissionType int

const (
	// EmitContinuous spawns particles at a fixed rate for the whole run.
	EmitContinuous EmissionType = iota
	// EmitBurst spawns groups of particles at a fixed interval for a fixed number of cycles.
	EmitBurst
	// EmitDuration behaves like EmitContinuous inside a time window.
	EmitDuration
)

// Color is an RGB color with channels in [0, 1].
type Color struct {
	R, G, B float64
}

// White is the default particle tint.
var White = Color{R: 1, G: 1, B: 1}

// EmitterConfig describes where, when and how fast particles are emitted.
type EmitterConfig struct {
	// Emitter origin in frame coordinates (Y grows downward)
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`

	Shape Shape        `yaml:"shape"`
	Mode  EmissionMode `yaml:"mode"`
	Type  EmissionType `yaml:"type"`

	// Launch direction and spread, in degrees. 0° points right, 90° points down.
	Angle       float64 `yaml:"angle"`
	AngleSpread float64 `yaml:"angleSpread"`

	SpeedMin float64 `yaml:"speedMin"`
	SpeedMax float64 `yaml:"speedMax"`

	// Rate is the continuous spawn rate in particles per second
	Rate         float64 `yaml:"rate"`
	MaxParticles int     `yaml:"maxParticles"`

	// Shape dimensions
	LineLength   float64 `yaml:"lineLength"`
	Radius       float64 `yaml:"radius"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	CornerRadius float64 `yaml:"cornerRadius"`

	// Burst parameters
	BurstCount    int     `yaml:"burstCount"`
	BurstCycles   int     `yaml:"burstCycles"`
	BurstInterval float64 `yaml:"burstInterval"`

	// Duration window, in seconds of simulation time
	DurationStart float64 `yaml:"durationStart"`
	DurationEnd   float64 `yaml:"durationEnd"`
}

// ParticleSettings is the complete description of one effect.
// A simulation run treats it as immutable.
type ParticleSettings struct {
	Emitter EmitterConfig `yaml:"emitter"`

	// Lifetime range in seconds
	LifetimeMin float64 `yaml:"lifetimeMin"`
	LifetimeMax float64 `yaml:"lifetimeMax"`

	// Gravity is the downward acceleration in pixels/s²
	Gravity float64 `yaml:"gravity"`
	// Drag is the fraction of velocity lost per second
	Drag float64 `yaml:"drag"`

	// Per-lifetime curves, evaluated at normalized age
	SizeCurve            Curve `yaml:"sizeCurve"`
	SpeedCurve           Curve `yaml:"speedCurve"`
	WeightCurve          Curve `yaml:"weightCurve"`
	SpinCurve            Curve `yaml:"spinCurve"`
	AngularVelocityCurve Curve `yaml:"angularVelocityCurve"`
	NoiseCurve           Curve `yaml:"noiseCurve"`
	AttractionCurve      Curve `yaml:"attractionCurve"`

	NoiseFrequency float64 `yaml:"noiseFrequency"`
	NoiseSpeed     float64 `yaml:"noiseSpeed"`

	// Vortex center in frame coordinates and its strength
	VortexX        float64 `yaml:"vortexX"`
	VortexY        float64 `yaml:"vortexY"`
	VortexStrength float64 `yaml:"vortexStrength"`

	// Attraction point in frame coordinates
	AttractionX float64 `yaml:"attractionX"`
	AttractionY float64 `yaml:"attractionY"`

	NonUniformScale bool    `yaml:"nonUniformScale"`
	ScaleRatioX     float64 `yaml:"scaleRatioX"`
	ScaleRatioY     float64 `yaml:"scaleRatioY"`

	StartColor Color   `yaml:"startColor"`
	EndColor   Color   `yaml:"endColor"`
	StartAlpha float64 `yaml:"startAlpha"`
	EndAlpha   float64 `yaml:"endAlpha"`

	// Export parameters
	Duration    float64 `yaml:"duration"`
	FPS         int     `yaml:"fps"`
	FrameWidth  int     `yaml:"frameWidth"`
	FrameHeight int     `yaml:"frameHeight"`

	// Seed drives every random decision of a run. 0 means "seed from the clock".
	Seed int64 `yaml:"seed"`
}

// Particle is one live particle.
type Particle struct {
	// ID is unique within a run and never reused
	ID int

	X, Y   float64
	VX, VY float64

	Life    float64 // remaining lifetime in seconds
	MaxLife float64 // initial lifetime

	// BaseSpeed is the launch speed the particle was spawned with
	BaseSpeed float64

	Rotation float64 // degrees
	Scale    float64
	ScaleX   float64
	ScaleY   float64

	Color Color
	Alpha float64

	// SpawnTime is the simulation clock at the moment the particle was created
	SpawnTime float64
}

// Age returns the normalized age of the particle in [0, 1].
func (p *Particle) Age() float64 {
	if p.MaxLife <= 0 {
		return 1
	}
	return 1 - p.Life/p.MaxLife
}
