package integration_test

import (
	"fmt"
	"testing"

	"go.uber.org/zap"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/physics"
	"nbody_galaxy_sim/internal/simulation"
)

// BenchmarkComputeAccelerations measures the parallel force kernel at a few
// particle counts around the defaults.
func BenchmarkComputeAccelerations(b *testing.B) {
	for _, n := range []int{500, 1000, 3000} {
		particles := physics.InitializeParticles(n, 1.0, 7)
		accel := make([]physics.Vec3, n)

		b.Run(fmt.Sprintf("n%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				physics.ComputeAccelerations(particles, 1.0, accel)
			}
		})
	}
}

// BenchmarkSimulationStep measures a full state-manager step including the
// snapshot copy.
func BenchmarkSimulationStep(b *testing.B) {
	cfg := config.DefaultConfig()
	cfg.ParticleCount = 1000

	sim, err := simulation.NewSimulationSeeded(cfg, 7, zap.NewNop())
	if err != nil {
		b.Fatalf("Failed to create simulation: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sim.Step()
	}
}
