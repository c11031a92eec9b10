package game

// PlayerState is the lifecycle of a participant. The numeric values are part
// of the stored record.
type PlayerState int

const (
	StateAlive    PlayerState = 1
	StateLootable PlayerState = 2
	StateDead     PlayerState = 3
)

func (s PlayerState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateLootable:
		return "lootable"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

type Player struct {
	Address string
	State   PlayerState
	Bomb    *Bomb
	Shield  bool
	Ready   bool
}

// NewPlayer returns an alive, not ready player holding its shield.
func NewPlayer(address string) *Player {
	return &Player{
		Address: address,
		State:   StateAlive,
		Shield:  true,
	}
}

// isAFK: an alive holder whose bomb timed out counts as lootable without a
// stored transition.
func (p *Player) isAFK(now int64) bool {
	if !p.IsAlive() || !p.HasBomb() {
		return false
	}
	return p.Bomb.TimedOut(now)
}

// PrepareToDie marks an alive player as lootable after a failed pass.
func (p *Player) PrepareToDie() error {
	if !p.IsAlive() {
		return ErrAlreadyDead
	}
	p.State = StateLootable
	return nil
}

// Die finishes a lootable (or AFK) player.
func (p *Player) Die(now int64) error {
	if !p.IsLootable(now) {
		return ErrNotLootable
	}
	p.State = StateDead
	return nil
}

func (p *Player) UseShield() error {
	if !p.Shield {
		return ErrNoShieldAvailable
	}
	p.Shield = false
	return nil
}

func (p *Player) GiveBomb(b *Bomb) {
	p.Bomb = b
}

// TakeBomb removes the held bomb and hands ownership to the caller.
func (p *Player) TakeBomb() (*Bomb, error) {
	if p.Bomb == nil {
		return nil, ErrNoObjectHeld
	}
	b := p.Bomb
	p.Bomb = nil
	return b, nil
}

// HeldBomb returns the held bomb without removing it.
func (p *Player) HeldBomb() (*Bomb, error) {
	if p.Bomb == nil {
		return nil, ErrNoObjectHeld
	}
	return p.Bomb, nil
}

func (p *Player) SetReady() { p.Ready = true }

func (p *Player) IsAlive() bool   { return p.State == StateAlive }
func (p *Player) IsDead() bool    { return p.State == StateDead }
func (p *Player) HasBomb() bool   { return p.Bomb != nil }
func (p *Player) HasShield() bool { return p.Shield }
func (p *Player) IsReady() bool   { return p.Ready }

func (p *Player) IsLootable(now int64) bool {
	return p.State == StateLootable || p.isAFK(now)
}
