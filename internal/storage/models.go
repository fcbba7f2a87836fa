package storage

import "time"

// Progress is the persisted player progression record (key gameData).
type Progress struct {
	Level          int      `json:"level"`
	Points         int      `json:"points"`
	Experience     int      `json:"experience"`
	TasksCompleted int      `json:"tasksCompleted"`
	GamesPlayed    int      `json:"gamesPlayed"`
	UnlockedGames  []string `json:"unlockedGames"`
}

// Clone returns a copy that shares no memory with p.
func (p Progress) Clone() Progress {
	out := p
	out.UnlockedGames = append([]string(nil), p.UnlockedGames...)
	return out
}

// HasGame reports whether id is in the unlocked set.
func (p Progress) HasGame(id string) bool {
	for _, g := range p.UnlockedGames {
		if g == id {
			return true
		}
	}
	return false
}

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// User is a registered account (value of the users map).
type User struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt"`
}

// CurrentUser is the signed-in session record.
type CurrentUser struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	LoginTime time.Time `json:"loginTime"`
}

// RewardEntry is one awarded reward, kept for the status history.
type RewardEntry struct {
	Source    string    `json:"source"` // "task" or "game"
	Game      string    `json:"game,omitempty"`
	Score     int       `json:"score,omitempty"`
	Points    int       `json:"points"`
	LevelTo   int       `json:"levelTo"`
	AwardedAt time.Time `json:"awardedAt"`
}
