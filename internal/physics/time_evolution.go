package physics

// IntegrateStep applies one semi-implicit Euler update:
//
//	v_i ← v_i + a_i * dt
//	r_i ← r_i + v_i * dt   (with the freshly updated velocity)
//
// The scheme is fixed-step. Each index is independent, so the update is
// chunked across workers like the force loop. No clamping is applied;
// particles flung to large radii stay in the simulation.
func IntegrateStep(particles []Particle, accel []Vec3, dt float32) {
	if len(accel) != len(particles) {
		panic("physics: acceleration buffer length mismatch")
	}

	parallelFor(len(particles), func(start, end int) {
		for i := start; i < end; i++ {
			p := &particles[i]
			a := accel[i]

			p.Velocity.X += a.X * dt
			p.Velocity.Y += a.Y * dt
			p.Velocity.Z += a.Z * dt

			p.Position.X += p.Velocity.X * dt
			p.Position.Y += p.Velocity.Y * dt
			p.Position.Z += p.Velocity.Z * dt
		}
	})
}

// AdvanceParticles performs one full physics step: force accumulation into
// accel followed by the semi-implicit Euler update.
func AdvanceParticles(particles []Particle, gravityStrength, dt float32, accel []Vec3) {
	ComputeAccelerations(particles, gravityStrength, accel)
	IntegrateStep(particles, accel, dt)
}
