package dynamics

// Params holds the tunable coefficients of the step engine. The engine reads
// them fresh on every step, so they may be replaced between any two steps.
// No range validation is performed: extreme values simply produce extreme
// dynamics.
type Params struct {
	// Alignment flow.

	// G0 is the base conductance.
	G0 float64 `json:"g0" yaml:"g0"`
	// G is the gain of kappa on conductance.
	G float64 `json:"g" yaml:"g"`
	// EpsNoise scales Gaussian noise on every flow entry. Zero disables it.
	EpsNoise float64 `json:"eps_noise" yaml:"eps_noise"`
	// Eta is the inertia learning rate.
	Eta float64 `json:"eta" yaml:"eta"`
	// Rho penalizes overdriven flow (flow²).
	Rho float64 `json:"rho" yaml:"rho"`
	// Lam is the inertia forgetting rate toward KappaMin.
	Lam float64 `json:"lam" yaml:"lam"`
	// KappaMin is the inertia floor. Kappa starts at 0, so KappaMin <= 0 is
	// the expected regime.
	KappaMin float64 `json:"kappa_min" yaml:"kappa_min"`

	// Heat.

	// Alpha is the heat accumulation rate from unresolved pressure.
	Alpha float64 `json:"alpha" yaml:"alpha"`
	// BetaE is the natural heat decay rate.
	BetaE float64 `json:"beta_e" yaml:"beta_e"`

	// Threshold and jump rate.

	// Theta0 is the threshold baseline.
	Theta0 float64 `json:"theta0" yaml:"theta0"`
	// A1 raises the threshold with mean inertia.
	A1 float64 `json:"a1" yaml:"a1"`
	// A2 lowers the threshold with forgetting.
	A2 float64 `json:"a2" yaml:"a2"`
	// H0 is the base jump rate.
	H0 float64 `json:"h0" yaml:"h0"`
	// Gamma divides the heat excess in the jump-rate exponential.
	Gamma float64 `json:"gamma" yaml:"gamma"`

	// Temperature.

	// T0 is the base temperature.
	T0 float64 `json:"t0" yaml:"t0"`
	// C1 raises temperature with heat.
	C1 float64 `json:"c1" yaml:"c1"`
	// C2 lowers temperature with policy entropy.
	C2 float64 `json:"c2" yaml:"c2"`

	// Sigma is the stddev of the noise added to policy logits.
	Sigma float64 `json:"sigma" yaml:"sigma"`

	// Rewire and relax.

	// DeltaW is added to w on the jumped edge.
	DeltaW float64 `json:"delta_w" yaml:"delta_w"`
	// DeltaKappa is added to kappa on the jumped edge.
	DeltaKappa float64 `json:"delta_kappa" yaml:"delta_kappa"`
	// C0Cool multiplies heat after a jump.
	C0Cool float64 `json:"c0_cool" yaml:"c0_cool"`
	// QRelax is the fraction of edges (by |flow|) relaxed after a jump.
	QRelax float64 `json:"q_relax" yaml:"q_relax"`
	// EpsRelax is subtracted from each relaxed edge.
	EpsRelax float64 `json:"eps_relax" yaml:"eps_relax"`

	// Epsilon exploration.

	// Eps0 is the exploration baseline.
	Eps0 float64 `json:"eps0" yaml:"eps0"`
	// D1 raises exploration with heat.
	D1 float64 `json:"d1" yaml:"d1"`
	// D2 lowers exploration with mean inertia.
	D2 float64 `json:"d2" yaml:"d2"`

	// BPath is reserved. It is stored and round-tripped but never read by
	// the step engine.
	BPath float64 `json:"b_path" yaml:"b_path"`
}

// DefaultParams returns the documented default coefficients.
func DefaultParams() Params {
	return Params{
		G0:         0.5,
		G:          0.7,
		EpsNoise:   0.0,
		Eta:        0.3,
		Rho:        0.3,
		Lam:        0.02,
		KappaMin:   0.0,
		Alpha:      0.6,
		BetaE:      0.15,
		Theta0:     1.0,
		A1:         0.5,
		A2:         0.4,
		H0:         0.2,
		Gamma:      0.8,
		T0:         0.3,
		C1:         0.5,
		C2:         0.6,
		Sigma:      0.2,
		DeltaW:     0.2,
		DeltaKappa: 0.2,
		C0Cool:     0.6,
		QRelax:     0.1,
		EpsRelax:   0.01,
		Eps0:       0.02,
		D1:         0.2,
		D2:         0.2,
		BPath:      0.5,
	}
}
