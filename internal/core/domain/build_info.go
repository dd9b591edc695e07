package domain

import "time"

// BuildInfo records the hashes of a target's last successful build.
type BuildInfo struct {
	TargetName string    `json:"target_name,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
	// Reads lists files read through read_file. They are part of the input hash.
	Reads []string `json:"reads,omitempty"`
}
