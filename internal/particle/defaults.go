package particle

// DefaultSettings returns a small upward fountain that fades out over its lifetime.
func DefaultSettings() ParticleSettings {
	return ParticleSettings{
		Emitter: EmitterConfig{
			X:             256,
			Y:             256,
			Shape:         ShapePoint,
			Mode:          EmitArea,
			Type:          EmitContinuous,
			Angle:         -90,
			AngleSpread:   30,
			SpeedMin:      80,
			SpeedMax:      120,
			Rate:          20,
			MaxParticles:  200,
			LineLength:    100,
			Radius:        50,
			Width:         100,
			Height:        60,
			CornerRadius:  10,
			BurstCount:    10,
			BurstCycles:   1,
			BurstInterval: 0.5,
			DurationStart: 0,
			DurationEnd:   1,
		},
		LifetimeMin:          1,
		LifetimeMax:          1.5,
		Gravity:              50,
		Drag:                 0,
		SizeCurve:            ConstantCurve(1),
		SpeedCurve:           ConstantCurve(1),
		WeightCurve:          ConstantCurve(1),
		SpinCurve:            ConstantCurve(0),
		AngularVelocityCurve: ConstantCurve(0),
		NoiseCurve:           ConstantCurve(0),
		AttractionCurve:      ConstantCurve(0),
		NoiseFrequency:       0.01,
		NoiseSpeed:           1,
		VortexX:              256,
		VortexY:              256,
		ScaleRatioX:          1,
		ScaleRatioY:          1,
		StartColor:           White,
		EndColor:             White,
		StartAlpha:           1,
		EndAlpha:             0,
		Duration:             2,
		FPS:                  30,
		FrameWidth:           512,
		FrameHeight:          512,
	}
}
