package engine

import (
	"taskcade/internal/game"
	"taskcade/internal/storage"
)

// UnlockPolicy decides which games a player may launch, based on the
// registry's required levels.
type UnlockPolicy struct {
	reg *game.Registry
}

func NewUnlockPolicy(reg *game.Registry) *UnlockPolicy {
	return &UnlockPolicy{reg: reg}
}

// RequiredLevel returns the level at which id unlocks.
func (u *UnlockPolicy) RequiredLevel(id game.ID) (int, bool) {
	e, ok := u.reg.Lookup(id)
	if !ok {
		return 0, false
	}
	return e.RequiredLevel, true
}

// IsUnlocked reports whether id is in the unlocked set or the player's level
// already meets its requirement.
func (u *UnlockPolicy) IsUnlocked(id game.ID, p storage.Progress) bool {
	req, ok := u.RequiredLevel(id)
	if !ok {
		return false
	}
	return p.HasGame(string(id)) || p.Level >= req
}

// Refresh adds every game whose required level is at or below p.Level and
// that is not yet unlocked, in catalog order. Skipped thresholds are
// backfilled. Entries are never removed.
func (u *UnlockPolicy) Refresh(p storage.Progress) (storage.Progress, []game.ID) {
	out := p.Clone()
	var added []game.ID
	for _, e := range u.reg.Catalog() {
		if e.RequiredLevel > out.Level || out.HasGame(string(e.ID)) {
			continue
		}
		out.UnlockedGames = append(out.UnlockedGames, string(e.ID))
		added = append(added, e.ID)
	}
	return out, added
}

// LaunchGuard returns nil when id may be started.
func (u *UnlockPolicy) LaunchGuard(id game.ID, p storage.Progress) error {
	req, ok := u.RequiredLevel(id)
	if !ok {
		return UnknownGameError{Game: string(id)}
	}
	if !u.IsUnlocked(id, p) {
		return NotUnlockedError{Game: id, Name: u.reg.DisplayName(id), RequiredLevel: req, CurrentLevel: p.Level}
	}
	return nil
}

// GameStatus is one row of the unlock table.
type GameStatus struct {
	Entry    game.Entry
	Unlocked bool
}

// Table lists every catalog game with its unlock state for p.
func (u *UnlockPolicy) Table(p storage.Progress) []GameStatus {
	cat := u.reg.Catalog()
	out := make([]GameStatus, 0, len(cat))
	for _, e := range cat {
		out = append(out, GameStatus{Entry: e, Unlocked: u.IsUnlocked(e.ID, p)})
	}
	return out
}

// NextUnlock returns the first locked game, if any.
func (u *UnlockPolicy) NextUnlock(p storage.Progress) (game.Entry, bool) {
	for _, e := range u.reg.Catalog() {
		if !u.IsUnlocked(e.ID, p) {
			return e, true
		}
	}
	return game.Entry{}, false
}
