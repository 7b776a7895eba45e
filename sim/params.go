package sim

// Params are the three tunable inputs that parameterize the step
// transitions. All values are percents.
type Params struct {
	ShockMagnitude     float64 // haircut applied to bonds at the shock step
	TargetReserveRatio float64 // threshold below which the rebalance fires
	YieldDistribution  float64 // share of total value paid out at distribution
}

// Parameter names accepted by Engine.SetParameter. They match the keys the
// input surface sends.
const (
	ParamShockMagnitude     = "shockMagnitude"
	ParamTargetReserveRatio = "targetReserveRatio"
	ParamYieldDistribution  = "yieldDistribution"
)

// Preset is a named bundle of the three parameters, a treasury
// "personality". Applying one resets the simulation.
type Preset struct {
	Name   string
	Label  string
	Params Params
}

// Presets in display order.
var Presets = []Preset{
	{
		Name:  "conservative",
		Label: "Conservative",
		Params: Params{
			ShockMagnitude:     10,
			TargetReserveRatio: 120,
			YieldDistribution:  3,
		},
	},
	{
		Name:  "balanced",
		Label: "Balanced",
		Params: Params{
			ShockMagnitude:     20,
			TargetReserveRatio: 110,
			YieldDistribution:  5,
		},
	},
	{
		Name:  "aggressive",
		Label: "Aggressive",
		Params: Params{
			ShockMagnitude:     35,
			TargetReserveRatio: 105,
			YieldDistribution:  8,
		},
	},
}

// PresetByName looks up a preset by its name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// DefaultParams returns the parameters a fresh engine starts with (the
// balanced preset).
func DefaultParams() Params {
	p, _ := PresetByName("balanced")
	return p.Params
}
