package sim

import "github.com/rustyeddy/treasurysim/risk"

// Liabilities is the fixed nominal liabilities figure the reserve ratio is
// measured against.
const Liabilities = 1_000_000.0

// AssetClass describes one of the four fixed asset buckets. The catalog is
// display metadata only; the engine never iterates it.
type AssetClass struct {
	ID          string
	Name        string
	Color       string
	Description string
}

// Assets is the full asset catalog, fixed at compile time.
var Assets = []AssetClass{
	{ID: "usdc", Name: "USDC", Color: "#2775ca", Description: "Stablecoin reserves, instantly liquid"},
	{ID: "tBills", Name: "T-Bills", Color: "#3d8361", Description: "Tokenized short-term treasuries"},
	{ID: "bonds", Name: "Corporate Bonds", Color: "#c0612b", Description: "Tokenized corporate debt, higher yield"},
	{ID: "cash", Name: "Cash", Color: "#8d93a1", Description: "Operating cash buffer"},
}

// Portfolio is the treasury ledger: a dollar amount per asset class.
// Values are replaced wholesale on every step transition, never patched.
type Portfolio struct {
	USDC   float64
	TBills float64
	Bonds  float64
	Cash   float64
}

// InitialAllocation returns the fixed starting ledger every run begins from.
func InitialAllocation() Portfolio {
	return Portfolio{
		USDC:   400_000,
		TBills: 300_000,
		Bonds:  200_000,
		Cash:   100_000,
	}
}

// Amount returns the holding for an asset class ID, for callers walking the
// catalog. Unknown IDs return 0.
func (p Portfolio) Amount(id string) float64 {
	switch id {
	case "usdc":
		return p.USDC
	case "tBills":
		return p.TBills
	case "bonds":
		return p.Bonds
	case "cash":
		return p.Cash
	}
	return 0
}

// TotalValue is the sum of all four holdings.
func (p Portfolio) TotalValue() float64 {
	return p.USDC + p.TBills + p.Bonds + p.Cash
}

// ReserveRatio is total value over the fixed liabilities figure, as a
// percent. It doubles as the rebalance trigger threshold.
func (p Portfolio) ReserveRatio() float64 {
	return p.TotalValue() / Liabilities * 100
}

// RiskScore is the 0-100 toy heuristic over composition and shock magnitude.
func (p Portfolio) RiskScore(params Params) float64 {
	return risk.Score(risk.Composition{
		USDC:   p.USDC,
		TBills: p.TBills,
		Bonds:  p.Bonds,
		Cash:   p.Cash,
	}, params.ShockMagnitude)
}
