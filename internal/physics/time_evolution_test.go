package physics

import (
	"math"
	"testing"
)

// TestSemiImplicitEulerOrder verifies the velocity is updated before the
// position uses it
func TestSemiImplicitEulerOrder(t *testing.T) {
	particles := []Particle{NewParticle(1.0, 0, 0, 0, 1, 0, 0)}
	accel := []Vec3{NewVec3(2, 0, 0)}
	dt := float32(0.5)

	IntegrateStep(particles, accel, dt)

	// v = 1 + 2*0.5 = 2, then r = 0 + 2*0.5 = 1
	if particles[0].Velocity.X != 2.0 {
		t.Errorf("Expected velocity 2.0, got %f", particles[0].Velocity.X)
	}
	if particles[0].Position.X != 1.0 {
		t.Errorf("Expected position 1.0 (semi-implicit), got %f", particles[0].Position.X)
	}
}

// TestFreeDrift verifies a single particle moves at constant velocity
func TestFreeDrift(t *testing.T) {
	particles := []Particle{NewParticle(1.0, 0, 0, 0, 1, 2, 3)}
	accel := make([]Vec3, 1)
	dt := float32(0.1)

	for step := 0; step < 100; step++ {
		AdvanceParticles(particles, 1.0, dt, accel)
	}

	p := &particles[0]
	if p.Velocity != NewVec3(1, 2, 3) {
		t.Errorf("Free particle velocity changed: %v", p.Velocity)
	}

	tol := 1e-4
	if math.Abs(float64(p.Position.X)-10.0) > tol ||
		math.Abs(float64(p.Position.Y)-20.0) > tol ||
		math.Abs(float64(p.Position.Z)-30.0) > tol {
		t.Errorf("Free particle drifted incorrectly: %v", p.Position)
	}
}

// TestMomentumExactWithoutGravity verifies that with gravity strength zero
// total momentum is preserved exactly over many steps
func TestMomentumExactWithoutGravity(t *testing.T) {
	particles := InitializeParticles(100, 1.0, 3)
	accel := make([]Vec3, len(particles))

	px0, py0, pz0 := TotalMomentum(particles)
	for step := 0; step < 50; step++ {
		AdvanceParticles(particles, 0, 0.01, accel)
	}
	px1, py1, pz1 := TotalMomentum(particles)

	if px0 != px1 || py0 != py1 || pz0 != pz1 {
		t.Errorf("Momentum changed without gravity: (%f,%f,%f) -> (%f,%f,%f)",
			px0, py0, pz0, px1, py1, pz1)
	}
}

// TestMomentumDriftBounded verifies there is no net external force: with
// gravity on, per-step momentum drift stays within float32 rounding noise
func TestMomentumDriftBounded(t *testing.T) {
	n := 200
	particles := InitializeParticles(n, 1.0, 5)
	accel := make([]Vec3, n)

	steps := 100
	px0, py0, pz0 := TotalMomentum(particles)
	for step := 0; step < steps; step++ {
		AdvanceParticles(particles, 1.0, 0.01, accel)
	}
	px1, py1, pz1 := TotalMomentum(particles)

	// Scale tolerance by the summed |momentum| magnitude; float32 pairwise
	// force rounding accumulates roughly with N per step.
	var scale float64
	for i := range particles {
		scale += float64(particles[i].Mass) * float64(particles[i].Velocity.Length())
	}
	tol := scale * float64(steps) * float64(n) * 1e-7

	drift := math.Abs(px1-px0) + math.Abs(py1-py0) + math.Abs(pz1-pz0)
	if drift > tol {
		t.Errorf("Momentum drift %e exceeds tolerance %e", drift, tol)
	}
}

// TestTwoBodyEnergyBounded runs a stable two-body configuration for many
// steps and checks the total energy does not grow systematically. The
// semi-implicit integrator is symplectic-like, so energy should oscillate
// within a few percent rather than diverge; tolerance is 10%.
func TestTwoBodyEnergyBounded(t *testing.T) {
	// Circular-ish orbit: separation well above the softening length.
	d := float32(20.0)
	m := float32(50.0)
	// v for a circular orbit of the reduced two-body problem.
	v := float32(math.Sqrt(float64(BaseGravity*m) / float64(2*d)))

	particles := []Particle{
		NewParticle(m, -d/2, 0, 0, 0, -v, 0),
		NewParticle(m, d/2, 0, 0, 0, v, 0),
	}
	accel := make([]Vec3, 2)

	e0 := TotalEnergy(particles, 1.0)
	maxDev := 0.0
	for step := 0; step < 10000; step++ {
		AdvanceParticles(particles, 1.0, 0.001, accel)
		if step%100 == 0 {
			dev := math.Abs(TotalEnergy(particles, 1.0) - e0)
			if dev > maxDev {
				maxDev = dev
			}
		}
	}

	tol := 0.10 * math.Abs(e0)
	if maxDev > tol {
		t.Errorf("Energy deviation %f exceeds 10%% of |E0|=%f", maxDev, math.Abs(e0))
	}

	for i := range particles {
		if !particles[i].IsFinite() {
			t.Fatalf("Particle %d not finite after 10000 steps", i)
		}
	}
}

// TestNoClampingAtLargeRadius verifies escapers are left alone
func TestNoClampingAtLargeRadius(t *testing.T) {
	particles := []Particle{NewParticle(1.0, 0, 0, 0, 1e6, 0, 0)}
	accel := make([]Vec3, 1)

	AdvanceParticles(particles, 1.0, 1.0, accel)

	if particles[0].Position.X != 1e6 {
		t.Errorf("Expected unclamped position 1e6, got %f", particles[0].Position.X)
	}
	if particles[0].Velocity.X != 1e6 {
		t.Errorf("Expected unclamped velocity 1e6, got %f", particles[0].Velocity.X)
	}
}
