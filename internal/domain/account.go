package domain

import "errors"

const (
	AccountNameMin = 3
	AccountNameMax = 12
)

var ErrInvalidAccountName = errors.New("invalid account name")

// Account is the public profile of a player.
type Account struct {
	Address string `db:"address" json:"address"`
	Name    string `db:"name" json:"name"`
}

// DefaultAccount gives a pseudo random name to a player without a profile.
func DefaultAccount(address string) Account {
	suffix := address
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return Account{Address: address, Name: "Player_" + suffix}
}

// SetName accepts 3 to 12 printable ASCII characters, space excluded.
func (a *Account) SetName(name string) error {
	if len(name) < AccountNameMin || len(name) > AccountNameMax {
		return ErrInvalidAccountName
	}
	for i := 0; i < len(name); i++ {
		if name[i] <= 32 || name[i] >= 127 {
			return ErrInvalidAccountName
		}
	}
	a.Name = name
	return nil
}
