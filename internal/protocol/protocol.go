// Package protocol defines the tagged JSON messages exchanged with a
// rendering client and their encoding.
package protocol

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"nbody_galaxy_sim/internal/config"
	"nbody_galaxy_sim/internal/simulation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Control-plane tags (peer -> core).
const (
	TypeUpdateConfig = "UpdateConfig"
	TypeReset        = "Reset"
	TypePause        = "Pause"
	TypeResume       = "Resume"
)

// Data-plane tags (core -> peer).
const (
	TypeState  = "State"
	TypeStats  = "Stats"
	TypeConfig = "Config"
	TypeError  = "Error"
)

// ControlMessage is the discriminated union of inbound control messages.
// UpdateConfig carries the configuration fields inline next to the tag.
type ControlMessage struct {
	Type string `json:"type"`
	config.Config
}

// DecodeControl parses an inbound control frame. Unknown tags are an error
// so the caller can log and drop the frame without terminating the session.
func DecodeControl(data []byte) (*ControlMessage, error) {
	var msg ControlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed control message: %w", err)
	}

	switch msg.Type {
	case TypeUpdateConfig, TypeReset, TypePause, TypeResume:
		return &msg, nil
	case "":
		return nil, fmt.Errorf("control message missing type tag")
	default:
		return nil, fmt.Errorf("unknown control message type %q", msg.Type)
	}
}

// ParticleState is the wire form of one particle.
type ParticleState struct {
	Position [3]float32 `json:"position"`
	Velocity [3]float32 `json:"velocity"`
	Mass     float32    `json:"mass"`
	Color    [4]float32 `json:"color"`
}

// StateMessage carries a particle snapshot.
type StateMessage struct {
	Type        string          `json:"type"`
	Particles   []ParticleState `json:"particles"`
	SimTime     float64         `json:"sim_time"`
	FrameNumber uint64          `json:"frame_number"`
}

// StatsMessage carries runtime statistics.
type StatsMessage struct {
	Type              string  `json:"type"`
	FPS               float64 `json:"fps"`
	ComputationTimeMS float64 `json:"computation_time_ms"`
	ParticleCount     int     `json:"particle_count"`
	SimTime           float64 `json:"sim_time"`
	CPUUsage          float64 `json:"cpu_usage"`
	FrameNumber       uint64  `json:"frame_number"`
}

// ConfigMessage echoes the active configuration.
type ConfigMessage struct {
	Type string `json:"type"`
	config.Config
}

// ErrorMessage surfaces a recoverable fault to the peer.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// EncodeState serializes a snapshot into a State frame.
func EncodeState(snap simulation.Snapshot) ([]byte, error) {
	particles := make([]ParticleState, len(snap.Particles))
	for i := range snap.Particles {
		p := &snap.Particles[i]
		particles[i] = ParticleState{
			Position: [3]float32{p.Position.X, p.Position.Y, p.Position.Z},
			Velocity: [3]float32{p.Velocity.X, p.Velocity.Y, p.Velocity.Z},
			Mass:     p.Mass,
			Color:    [4]float32{p.Color.R, p.Color.G, p.Color.B, p.Color.A},
		}
	}

	return json.Marshal(StateMessage{
		Type:        TypeState,
		Particles:   particles,
		SimTime:     snap.SimTime,
		FrameNumber: snap.FrameNumber,
	})
}

// EncodeStats serializes a stats record.
func EncodeStats(st simulation.Stats) ([]byte, error) {
	return json.Marshal(StatsMessage{
		Type:              TypeStats,
		FPS:               st.FPS,
		ComputationTimeMS: st.ComputationTimeMS,
		ParticleCount:     st.ParticleCount,
		SimTime:           st.SimTime,
		CPUUsage:          st.CPUUsage,
		FrameNumber:       st.FrameNumber,
	})
}

// EncodeConfig serializes the active configuration.
func EncodeConfig(cfg *config.Config) ([]byte, error) {
	return json.Marshal(ConfigMessage{
		Type:   TypeConfig,
		Config: *cfg,
	})
}

// EncodeError serializes a recoverable error for the peer.
func EncodeError(message string) ([]byte, error) {
	return json.Marshal(ErrorMessage{
		Type:    TypeError,
		Message: message,
	})
}
