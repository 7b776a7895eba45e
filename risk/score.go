package risk

// Composition weights for the toy risk heuristic. Corporate bonds dominate
// the score; cash contributes nothing.
const (
	bondsWeight  = 80.0
	tBillsWeight = 10.0
	usdcWeight   = 5.0
	cashWeight   = 0.0
)

// Composition holds the dollar amount in each asset bucket.
type Composition struct {
	USDC   float64
	TBills float64
	Bonds  float64
	Cash   float64
}

func (c Composition) total() float64 {
	return c.USDC + c.TBills + c.Bonds + c.Cash
}

// Score computes a 0-100 risk score from asset composition and shock
// magnitude: each bucket's fractional weight of total value times its
// weighting, scaled by 1 + shock/100, clamped to [0, 100].
//
// An empty composition scores 0. This is a monotonic toy heuristic for
// display, not a statistical risk measure.
func Score(c Composition, shockMagnitude float64) float64 {
	total := c.total()
	if total == 0 {
		return 0
	}

	base := bondsWeight*(c.Bonds/total) +
		tBillsWeight*(c.TBills/total) +
		usdcWeight*(c.USDC/total) +
		cashWeight*(c.Cash/total)

	score := base * (1 + shockMagnitude/100)
	return clamp(score, 0, 100)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
