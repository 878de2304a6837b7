package dynamics

// Telemetry carries the derived scalars of one step.
type Telemetry struct {
	Heat      float64 `json:"heat"`
	Threshold float64 `json:"theta"`
	JumpRate  float64 `json:"jump_rate"`
	Temp      float64 `json:"temperature"`
	Entropy   float64 `json:"entropy"`
	FlowNorm  float64 `json:"j_norm"`
	AlignEff  float64 `json:"align_eff"`
	KappaMean float64 `json:"kappa_mean"`
	Current   int     `json:"current"`
	DidJump   bool    `json:"did_jump"`
	RewiredTo int     `json:"rewired_to"`
}

// Attrs flattens the telemetry into alternating key/value pairs for slog.
func (t Telemetry) Attrs() []any {
	return []any{
		"heat", t.Heat,
		"theta", t.Threshold,
		"jump_rate", t.JumpRate,
		"temperature", t.Temp,
		"entropy", t.Entropy,
		"j_norm", t.FlowNorm,
		"align_eff", t.AlignEff,
		"kappa_mean", t.KappaMean,
		"current", t.Current,
		"did_jump", t.DidJump,
		"rewired_to", t.RewiredTo,
	}
}
