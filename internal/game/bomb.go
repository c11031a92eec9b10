package game

const (
	// AFKWindow is how long a holder may keep the bomb, in microseconds.
	AFKWindow int64 = 20 * 1000 * 1000

	InitialRisk = 5
	MaxRisk     = 50
	RiskTick    = 5
)

// Bomb is the hot potato. It has no back-reference to its holder: whoever
// holds the pointer owns it.
type Bomb struct {
	Started int64 `json:"started"`
	Risk    int   `json:"risk"`
}

func NewBomb(now int64) *Bomb {
	return &Bomb{Started: now, Risk: InitialRisk}
}

// TimedOut reports whether the holder kept the bomb past the AFK window.
func (b *Bomb) TimedOut(now int64) bool {
	return b.Started+AFKWindow <= now
}

// Explodes draws exactly one roll in [0, 100) and reports whether the current
// risk beats it.
func (b *Bomb) Explodes(r *PRNG) (bool, error) {
	roll, err := r.Range(0, 100)
	if err != nil {
		return false, err
	}
	return uint64(b.Risk) > roll, nil
}

// Advance rearms the AFK timer and raises the risk for the next holder.
func (b *Bomb) Advance(now int64) {
	b.Started = now
	b.Risk += RiskTick
	if b.Risk > MaxRisk {
		b.Risk = MaxRisk
	}
}
