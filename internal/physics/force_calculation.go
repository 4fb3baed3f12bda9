package physics

import (
	"math"
	"runtime"
	"sync"
)

// Physical constants of the engine. Neither is reachable from the client
// configuration surface; GravityStrength in the config scales BaseGravity.
const (
	// BaseGravity is the internal gravitational constant G0.
	BaseGravity float32 = 1.0

	// SofteningLength prevents divergent forces at close encounters. It is
	// added in quadrature to every inter-particle distance.
	SofteningLength float32 = 1.0
)

const softeningSq = SofteningLength * SofteningLength

// parallelFor splits [0,n) into contiguous chunks, one per worker, and runs
// fn on each chunk concurrently. The chunking is deterministic for a given
// GOMAXPROCS so that float summation order is reproducible under a fixed
// worker-count contract.
func parallelFor(n int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(i0, i1 int) {
			defer wg.Done()
			fn(i0, i1)
		}(start, end)
	}
	wg.Wait()
}

// ComputeAccelerations fills accel with the softened pairwise gravitational
// acceleration of every particle:
//
//	a_i = G0 * gravityStrength * Σ_{j≠i} m_j (r_j − r_i) / (|r_j − r_i|² + ε²)^{3/2}
//
// The outer loop is chunked across workers; each worker writes only its own
// index range of accel and reads only positions and masses, so there is no
// shared mutable state. len(accel) must equal len(particles).
func ComputeAccelerations(particles []Particle, gravityStrength float32, accel []Vec3) {
	if len(accel) != len(particles) {
		panic("physics: acceleration buffer length mismatch")
	}

	g := BaseGravity * gravityStrength

	parallelFor(len(particles), func(start, end int) {
		for i := start; i < end; i++ {
			pi := &particles[i]
			var ax, ay, az float32

			for j := range particles {
				if j == i {
					continue
				}
				pj := &particles[j]

				dx := pj.Position.X - pi.Position.X
				dy := pj.Position.Y - pi.Position.Y
				dz := pj.Position.Z - pi.Position.Z

				distSq := dx*dx + dy*dy + dz*dz + softeningSq
				invD := float32(1.0 / math.Sqrt(float64(distSq)))
				f := pj.Mass * invD * invD * invD

				ax += f * dx
				ay += f * dy
				az += f * dz
			}

			accel[i] = Vec3{X: g * ax, Y: g * ay, Z: g * az}
		}
	})
}

// TotalMomentum returns the summed momentum vector of all particles,
// accumulated in float64 so the tests can measure per-step drift.
func TotalMomentum(particles []Particle) (px, py, pz float64) {
	for i := range particles {
		p := &particles[i]
		m := float64(p.Mass)
		px += m * float64(p.Velocity.X)
		py += m * float64(p.Velocity.Y)
		pz += m * float64(p.Velocity.Z)
	}
	return px, py, pz
}

// TotalEnergy returns kinetic plus softened pairwise potential energy. Used
// to check that the integrator does not systematically gain energy.
func TotalEnergy(particles []Particle, gravityStrength float32) float64 {
	g := float64(BaseGravity * gravityStrength)

	var kinetic float64
	for i := range particles {
		kinetic += float64(particles[i].KineticEnergy())
	}

	var potential float64
	for i := range particles {
		for j := i + 1; j < len(particles); j++ {
			d := particles[j].Position.Sub(particles[i].Position)
			dist := math.Sqrt(float64(d.LengthSq() + softeningSq))
			potential -= g * float64(particles[i].Mass) * float64(particles[j].Mass) / dist
		}
	}

	return kinetic + potential
}
