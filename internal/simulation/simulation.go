package simulation

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/physics"
)

// fpsSmoothing is the EMA weight of the newest tick-rate sample.
const fpsSmoothing = 0.1

// Snapshot is a consistent, read-only view of the particle array and
// simulation time, safe to serialize after the state lock is released.
type Snapshot struct {
	Particles   []physics.Particle
	SimTime     float64
	FrameNumber uint64
}

// Stats describes the runtime health of the simulation after a step.
type Stats struct {
	FPS               float64
	ComputationTimeMS float64
	ParticleCount     int
	SimTime           float64
	CPUUsage          float64
	FrameNumber       uint64
}

// Simulation is the authoritative container for particles, configuration and
// time state. All methods are safe for concurrent use; the internal mutex is
// held only for the duration of a call, never across I/O.
type Simulation struct {
	mu sync.Mutex

	cfg       *config.Config
	particles []physics.Particle
	accel     []physics.Vec3

	simTime     float64
	frameNumber uint64
	paused      bool

	lastComputationMS     float64
	consecutiveSlowFrames int

	smoothedFPS float64
	lastStepAt  time.Time

	seed   func() int64
	logger *zap.Logger
}

// NewSimulation creates a simulation from the given configuration and
// generates the initial particle array. The RNG is seeded from the wall
// clock on every reset.
func NewSimulation(cfg *config.Config, logger *zap.Logger) (*Simulation, error) {
	return newSimulation(cfg, logger, func() int64 { return time.Now().UnixNano() })
}

// NewSimulationSeeded is NewSimulation with a fixed RNG seed, for
// reproducible initialization in tests.
func NewSimulationSeeded(cfg *config.Config, seed int64, logger *zap.Logger) (*Simulation, error) {
	return newSimulation(cfg, logger, func() int64 { return seed })
}

func newSimulation(cfg *config.Config, logger *zap.Logger, seed func() int64) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Simulation{
		cfg:    cfg.Clone(),
		seed:   seed,
		logger: logger,
	}
	s.resetLocked()
	return s, nil
}

// Reset regenerates the particle array from the current configuration and
// rewinds sim_time and frame_number to zero. The simulation resumes unpaused.
func (s *Simulation) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Simulation) resetLocked() {
	s.particles = physics.InitializeParticles(s.cfg.ParticleCount, s.cfg.GravityStrength, s.seed())
	s.accel = make([]physics.Vec3, len(s.particles))
	s.simTime = 0
	s.frameNumber = 0
	s.paused = false
	s.lastComputationMS = 0
	s.consecutiveSlowFrames = 0

	if s.cfg.Debug {
		s.logger.Debug("simulation reset",
			zap.Int("particle_count", s.cfg.ParticleCount))
	}
}

// UpdateConfig validates and applies a new configuration. Validation is
// all-or-nothing: on error nothing changes. A particle-count change triggers
// an implicit reset; every other field updates in place without disturbing
// the particle array.
func (s *Simulation) UpdateConfig(newCfg *config.Config) error {
	if err := newCfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	countChanged := newCfg.ParticleCount != s.cfg.ParticleCount
	s.cfg = newCfg.Clone()
	if countChanged {
		s.resetLocked()
	}
	return nil
}

// SetPaused freezes or resumes physics. Paused steps mutate nothing.
func (s *Simulation) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

// IsPaused returns the current pause state
func (s *Simulation) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Config returns a copy of the current configuration
func (s *Simulation) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Snapshot returns a consistent view of the current state without advancing
// physics.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Simulation) snapshotLocked() Snapshot {
	view := make([]physics.Particle, len(s.particles))
	copy(view, s.particles)
	return Snapshot{
		Particles:   view,
		SimTime:     s.simTime,
		FrameNumber: s.frameNumber,
	}
}

// Step advances the simulation by one fixed time step, unless paused, and
// returns a snapshot plus stats. Paused steps still sample the tick rate and
// report stats with a zero computation time.
func (s *Simulation) Step() (Snapshot, Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.sampleTickRate(now)

	if !s.paused {
		physics.AdvanceParticles(s.particles, s.cfg.GravityStrength, s.cfg.TimeStep, s.accel)
		elapsed := time.Since(now)

		s.simTime += float64(s.cfg.TimeStep)
		s.frameNumber++
		s.lastComputationMS = float64(elapsed) / float64(time.Millisecond)

		s.checkPerformance(elapsed)
		if s.cfg.Debug {
			s.verifyFinite()
		}
	} else {
		s.lastComputationMS = 0
	}

	return s.snapshotLocked(), s.statsLocked()
}

func (s *Simulation) statsLocked() Stats {
	tickMS := float64(config.PhysicsPeriod) / float64(time.Millisecond)
	cpu := 100 * s.lastComputationMS / tickMS
	if cpu > 100 {
		cpu = 100
	}
	if cpu < 0 {
		cpu = 0
	}

	return Stats{
		FPS:               s.smoothedFPS,
		ComputationTimeMS: s.lastComputationMS,
		ParticleCount:     len(s.particles),
		SimTime:           s.simTime,
		CPUUsage:          cpu,
		FrameNumber:       s.frameNumber,
	}
}

// sampleTickRate feeds the exponentially smoothed tick-rate estimate. Every
// Step call contributes a sample, paused or not.
func (s *Simulation) sampleTickRate(now time.Time) {
	if !s.lastStepAt.IsZero() {
		interval := now.Sub(s.lastStepAt).Seconds()
		if interval > 0 {
			instant := 1.0 / interval
			if s.smoothedFPS == 0 {
				s.smoothedFPS = instant
			} else {
				s.smoothedFPS = s.smoothedFPS*(1-fpsSmoothing) + instant*fpsSmoothing
			}
		}
	}
	s.lastStepAt = now
}

// checkPerformance tracks consecutive slow frames. The warnings are
// advisory; the simulation keeps running regardless.
func (s *Simulation) checkPerformance(elapsed time.Duration) {
	if elapsed <= config.MaxComputationTime {
		s.consecutiveSlowFrames = 0
		return
	}

	s.consecutiveSlowFrames++
	if s.consecutiveSlowFrames >= config.SlowFrameEscalation {
		s.logger.Error("physics step consistently over budget, reduce particle count",
			zap.Duration("elapsed", elapsed),
			zap.Int("consecutive_slow_frames", s.consecutiveSlowFrames),
			zap.Int("particle_count", len(s.particles)))
	} else {
		s.logger.Warn("slow physics step",
			zap.Duration("elapsed", elapsed),
			zap.Int("particle_count", len(s.particles)))
	}
}

// verifyFinite scans for non-finite particle state after an integration
// step. A hit is a logic bug in the engine, not a user error.
func (s *Simulation) verifyFinite() {
	for i := range s.particles {
		if !s.particles[i].IsFinite() {
			s.logger.Error("non-finite particle state after integration",
				zap.Int("index", i),
				zap.Uint64("frame_number", s.frameNumber))
			return
		}
	}
}
