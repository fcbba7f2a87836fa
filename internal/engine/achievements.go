package engine

import (
	"context"

	"taskcade/internal/storage"
)

// Achievement represents a badge the player can earn.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// AchievementChecker calculates which achievements the player has earned.
type AchievementChecker struct {
	progress storage.Progress
	tasks    []storage.Task
	policy   *UnlockPolicy
}

func NewAchievementChecker(progress storage.Progress, tasks []storage.Task, policy *UnlockPolicy) *AchievementChecker {
	return &AchievementChecker{
		progress: progress,
		tasks:    tasks,
		policy:   policy,
	}
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Level milestones
		c.levelAchievement("getting_started", "Getting Started", "Reach level 2", "🌱", 2),
		c.levelAchievement("on_a_roll", "On a Roll", "Reach level 5", "🌿", 5),
		c.levelAchievement("seasoned", "Seasoned", "Reach level 10", "⭐", 10),
		c.levelAchievement("master", "Master", "Reach level 20", "💫", 20),

		// Task completion milestones
		c.taskCountAchievement("first_task", "First Task", "Complete 1 task", "✓", 1),
		c.taskCountAchievement("productive", "Productive", "Complete 10 tasks", "📋", 10),
		c.taskCountAchievement("achiever", "Achiever", "Complete 50 tasks", "🏅", 50),
		c.taskCountAchievement("powerhouse", "Powerhouse", "Complete 100 tasks", "🏆", 100),

		// Arcade milestones
		c.gamesPlayedAchievement("first_game", "Player One", "Play a game", "🕹️", 1),
		c.gamesPlayedAchievement("regular", "Arcade Regular", "Play 25 games", "🎮", 25),
		c.collectionAchievement("collector", "Collector", "Unlock every game", "🗝️"),

		c.backlogAchievement("clean_slate", "Clean Slate", "Have tasks and finish all of them", "🧹"),
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) CountTotal() int {
	return len(c.GetAchievements())
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, level int) Achievement {
	earned := c.progress.Level >= level
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// taskCountAchievement uses the lifetime counter so deleted tasks still count.
func (c *AchievementChecker) taskCountAchievement(id, name, desc, icon string, count int) Achievement {
	earned := c.progress.TasksCompleted >= count
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) gamesPlayedAchievement(id, name, desc, icon string, count int) Achievement {
	earned := c.progress.GamesPlayed >= count
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) collectionAchievement(id, name, desc, icon string) Achievement {
	earned := true
	for _, row := range c.policy.Table(c.progress) {
		if !row.Unlocked {
			earned = false
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) backlogAchievement(id, name, desc, icon string) Achievement {
	earned := len(c.tasks) > 0
	for _, t := range c.tasks {
		if !t.Completed {
			earned = false
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// Achievements is a convenience wrapper over the live progress and tasks.
func (c *Coordinator) Achievements(ctx context.Context) ([]Achievement, error) {
	tasks, err := c.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	checker := NewAchievementChecker(c.Progress(), tasks, c.policy)
	return checker.GetAchievements(), nil
}
