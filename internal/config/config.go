package config

import (
	"fmt"
	"math"
	"time"
)

// Hard limits and cadences of the simulation service. These are build-time
// tunables, not part of the client-facing configuration surface.
const (
	// MaxParticles caps the particle array size a client may request.
	MaxParticles = 15000

	// MaxVisualFPS bounds the outbound snapshot rate.
	MaxVisualFPS = 60

	// PhysicsPeriod is the cadence of the physics tick.
	PhysicsPeriod = 16 * time.Millisecond

	// StatsEveryFrames is the frame interval between stats records.
	StatsEveryFrames = 30

	// MaxComputationTime is the per-step wall time above which a frame
	// counts as slow.
	MaxComputationTime = 200 * time.Millisecond

	// SlowFrameEscalation is the number of consecutive slow frames after
	// which the advisory is promoted to an error.
	SlowFrameEscalation = 10

	// HeartbeatPeriod is the interval between liveness probes to the peer.
	HeartbeatPeriod = 5 * time.Second

	// ClientTimeout ends the session when no pong arrives within it.
	ClientTimeout = 10 * time.Second

	// WatchdogPeriod is the sampling interval of the stall monitor.
	WatchdogPeriod = 10 * time.Second
)

// Config holds the runtime-tunable simulation parameters. The same shape is
// carried on the wire in UpdateConfig and Config frames.
type Config struct {
	// ParticleCount is the target size of the particle array. Changing it
	// triggers a full regeneration.
	ParticleCount int `json:"particle_count"`

	// TimeStep is the dt passed to the integrator each physics tick, in
	// simulation seconds.
	TimeStep float32 `json:"time_step"`

	// GravityStrength scales the base gravitational constant.
	GravityStrength float32 `json:"gravity_strength"`

	// VisualFPS is the target outbound snapshot rate, 1..60.
	VisualFPS int `json:"visual_fps"`

	// ZoomLevel is an opaque pass-through for the rendering client; the
	// core never reads it.
	ZoomLevel float32 `json:"zoom_level"`

	// Debug enables verbose progress reporting.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ParticleCount:   3000,
		TimeStep:        0.01,
		GravityStrength: 1.0,
		VisualFPS:       30,
		ZoomLevel:       1.0,
		Debug:           false,
	}
}

// Validate checks if the configuration is valid. Validation is
// all-or-nothing: a rejected config leaves the caller's state untouched.
func (c *Config) Validate() error {
	if c.ParticleCount < 1 {
		return fmt.Errorf("invalid particle count: %d (minimum 1)", c.ParticleCount)
	}
	if c.ParticleCount > MaxParticles {
		return fmt.Errorf("invalid particle count: %d (maximum %d)", c.ParticleCount, MaxParticles)
	}
	if math.IsNaN(float64(c.TimeStep)) || math.IsInf(float64(c.TimeStep), 0) {
		return fmt.Errorf("time step must be finite, got %f", c.TimeStep)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("invalid time step: %f (must be positive)", c.TimeStep)
	}
	if math.IsNaN(float64(c.GravityStrength)) || math.IsInf(float64(c.GravityStrength), 0) {
		return fmt.Errorf("gravity strength must be finite, got %f", c.GravityStrength)
	}
	if c.VisualFPS < 1 {
		return fmt.Errorf("invalid visual fps: %d (minimum 1)", c.VisualFPS)
	}
	if c.VisualFPS > MaxVisualFPS {
		return fmt.Errorf("invalid visual fps: %d (maximum %d)", c.VisualFPS, MaxVisualFPS)
	}
	if math.IsNaN(float64(c.ZoomLevel)) || math.IsInf(float64(c.ZoomLevel), 0) {
		return fmt.Errorf("zoom level must be finite, got %f", c.ZoomLevel)
	}
	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// SnapshotInterval returns the minimum wall-clock spacing between outbound
// snapshots implied by VisualFPS.
func (c *Config) SnapshotInterval() time.Duration {
	fps := c.VisualFPS
	if fps < 1 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}
