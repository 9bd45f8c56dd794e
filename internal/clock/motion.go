package clock

import "math"

// Motion configures the idle card animation. Amplitudes are in [0,1];
// RotateSpeed is degrees per second.
type Motion struct {
	Rotate         bool
	RotateSpeed    float64
	Float          bool
	FloatAmplitude float64
	Pulse          bool
	PulseAmplitude float64
}

// DefaultMotion floats gently without auto-rotation.
func DefaultMotion() Motion {
	return Motion{
		RotateSpeed:    20,
		Float:          true,
		FloatAmplitude: 0.05,
		PulseAmplitude: 0.5,
	}
}

// RotationDelta is the yaw increment in degrees for a tick of dt seconds.
func (m Motion) RotationDelta(dt float64) float64 {
	if !m.Rotate || !(dt > 0) {
		return 0
	}
	return m.RotateSpeed * dt
}

// FloatOffset is the vertical bob at time t.
func (m Motion) FloatOffset(t float64) float64 {
	if !m.Float {
		return 0
	}
	return math.Sin(t*2) * m.FloatAmplitude
}

// PulseScale is the uniform scale factor at time t.
func (m Motion) PulseScale(t float64) float64 {
	if !m.Pulse {
		return 1
	}
	return 1 + math.Sin(t*3)*0.1*m.PulseAmplitude
}
