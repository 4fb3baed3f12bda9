package physics

// Color is an advisory RGBA display attribute with channels in [0,1].
// Physics never reads it.
type Color struct {
	R, G, B, A float32
}

// Particle represents a single point mass in the simulation
type Particle struct {
	Position Vec3
	Velocity Vec3
	Mass     float32
	Color    Color
}

// NewParticle creates a new particle with the given properties
func NewParticle(mass, px, py, pz, vx, vy, vz float32) Particle {
	return Particle{
		Mass:     mass,
		Position: NewVec3(px, py, pz),
		Velocity: NewVec3(vx, vy, vz),
		Color:    Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// KineticEnergy calculates the kinetic energy of the particle
func (p *Particle) KineticEnergy() float32 {
	return 0.5 * p.Mass * p.Velocity.LengthSq()
}

// IsFinite reports whether the particle holds no NaN or infinite component
func (p *Particle) IsFinite() bool {
	return p.Position.IsFinite() && p.Velocity.IsFinite() && isFinite32(p.Mass)
}
