package physics

import (
	"math"
	"math/rand"
)

// Disk geometry of the default two-galaxy collision. World units.
const (
	galaxySeparation  float32 = 80.0
	galaxyRadius      float32 = 60.0
	galaxyApproachVel float32 = 3.0
	diskThickness     float32 = 0.05 // fraction of the disk radius
	meanParticleMass  float32 = 1.0
)

// Galaxy describes one spiral disk. It is consumed once while seeding the
// particle array; no galaxy identity survives into the evolution.
type Galaxy struct {
	Center       Vec3
	BulkVelocity Vec3
	SpinAxis     Vec3
	Count        int
	Radius       float32
	CoreColor    Color
	RimColor     Color
}

// DefaultCollision returns two spiral disks on an approach trajectory,
// splitting n particles roughly in half (one-particle imbalance when n is
// odd). The disks are tilted against each other and offset slightly off the
// approach axis so the encounter is not head-on.
func DefaultCollision(n int) []Galaxy {
	half := n / 2
	return []Galaxy{
		{
			Center:       NewVec3(-galaxySeparation, 0, -10),
			BulkVelocity: NewVec3(galaxyApproachVel, 0, 0.4),
			SpinAxis:     NewVec3(0.15, 1, 0),
			Count:        n - half,
			Radius:       galaxyRadius,
			CoreColor:    Color{R: 1.0, G: 0.95, B: 0.8, A: 1},
			RimColor:     Color{R: 0.55, G: 0.65, B: 1.0, A: 1},
		},
		{
			Center:       NewVec3(galaxySeparation, 0, 10),
			BulkVelocity: NewVec3(-galaxyApproachVel, 0, -0.4),
			SpinAxis:     NewVec3(-0.2, 1, 0.25),
			Count:        half,
			Radius:       galaxyRadius,
			CoreColor:    Color{R: 1.0, G: 0.9, B: 0.75, A: 1},
			RimColor:     Color{R: 1.0, G: 0.5, B: 0.3, A: 1},
		},
	}
}

// InitializeParticles builds the initial particle array for the default
// two-galaxy collision. The seed makes initialization reproducible for
// tests; production resets pass a wall-clock seed.
func InitializeParticles(n int, gravityStrength float32, seed int64) []Particle {
	rng := rand.New(rand.NewSource(seed))
	particles := make([]Particle, 0, n)

	for _, g := range DefaultCollision(n) {
		particles = appendDisk(particles, rng, g, BaseGravity*gravityStrength)
	}

	return particles
}

// appendDisk samples one spiral disk: exponential radial profile toward a
// central bulge, near-circular in-plane velocities in the disk's own rest
// frame, finite thickness along the spin axis.
func appendDisk(out []Particle, rng *rand.Rand, g Galaxy, gEff float32) []Particle {
	axis := g.SpinAxis.Normalize()

	// In-plane basis orthogonal to the spin axis.
	ref := NewVec3(1, 0, 0)
	if math.Abs(float64(axis.Dot(ref))) > 0.9 {
		ref = NewVec3(0, 0, 1)
	}
	u := axis.Cross(ref).Normalize()
	w := axis.Cross(u)

	diskMass := float32(g.Count) * meanParticleMass
	radialScale := float64(g.Radius) / 3.0
	thickness := g.Radius * diskThickness

	for i := 0; i < g.Count; i++ {
		r := float32(rng.ExpFloat64() * radialScale)
		if r > g.Radius {
			r = g.Radius
		}

		theta := rng.Float64() * 2 * math.Pi
		radial := u.Scale(float32(math.Cos(theta))).Add(w.Scale(float32(math.Sin(theta))))

		pos := g.Center.
			Add(radial.Scale(r)).
			Add(axis.Scale(float32(rng.NormFloat64()) * thickness))

		// Circular speed for the mass enclosed by an exponential disk,
		// softened near the bulge.
		enclosed := diskMass * float32(1.0-math.Exp(-float64(r)/radialScale))
		vTan := float32(math.Sqrt(float64(gEff * enclosed / (r + SofteningLength))))

		tangent := axis.Cross(radial)
		vel := g.BulkVelocity.
			Add(tangent.Scale(vTan)).
			Add(axis.Scale(float32(rng.NormFloat64()) * vTan * 0.05))

		mass := meanParticleMass * (0.75 + rng.Float32()*0.5)

		out = append(out, Particle{
			Position: pos,
			Velocity: vel,
			Mass:     mass,
			Color:    paletteColor(g, r),
		})
	}

	return out
}

// paletteColor interpolates between the core and rim colors by radius.
func paletteColor(g Galaxy, r float32) Color {
	t := r / g.Radius
	if t > 1 {
		t = 1
	}
	return Color{
		R: g.CoreColor.R + (g.RimColor.R-g.CoreColor.R)*t,
		G: g.CoreColor.G + (g.RimColor.G-g.CoreColor.G)*t,
		B: g.CoreColor.B + (g.RimColor.B-g.CoreColor.B)*t,
		A: 1,
	}
}
