package engine

import (
	"fmt"

	"taskcade/internal/game"
)

// ValidationError rejects user input before any state is touched.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotUnlockedError is returned when a game launch is denied by level.
// This is shown to the user.
type NotUnlockedError struct {
	Game          game.ID
	Name          string
	RequiredLevel int
	CurrentLevel  int
}

func (e NotUnlockedError) Error() string {
	name := e.Name
	if name == "" {
		name = string(e.Game)
	}
	return fmt.Sprintf("%s is not unlocked yet: requires level %d (currently %d)", name, e.RequiredLevel, e.CurrentLevel)
}

// NotAuthenticatedError is returned for actions that need a signed-in user.
type NotAuthenticatedError struct {
	Action string
}

func (e NotAuthenticatedError) Error() string {
	if e.Action == "" {
		return "please sign in first"
	}
	return fmt.Sprintf("please sign in to %s", e.Action)
}

type UnknownGameError struct {
	Game string
}

func (e UnknownGameError) Error() string {
	return fmt.Sprintf("unknown game: %q", e.Game)
}

type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}
