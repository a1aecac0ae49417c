// Package loyalty implements the points ledger and the task reward state
// machine. The pure parts (level math, badge lists, status transitions) live
// in this file and transition.go; Service applies them transactionally.
package loyalty

import "fmt"

const pointsPerLevel = 100

// Bonuses credited outside individual task rewards.
const (
	QuestionnaireBonusPoints = 50
	QuestionnaireBadge       = "🌟 Débutant"

	OnboardingBonusPoints         = 100
	OnboardingBonusDiscountPoints = 25
	OnboardingBonusBadge          = "🌟 Champion du Démarrage"
)

// Level derives the level from lifetime points. Level 1 starts at zero, each
// level spans 100 points.
func Level(totalPoints int) int {
	if totalPoints < 0 {
		return 1
	}
	return totalPoints/pointsPerLevel + 1
}

// LevelBadge is the badge awarded on reaching a level.
func LevelBadge(level int) string {
	return fmt.Sprintf("🏆 Niveau %d", level)
}

// AddBadge appends a badge unless it is already present. Order is preserved.
func AddBadge(badges []string, badge string) []string {
	for _, b := range badges {
		if b == badge {
			return badges
		}
	}
	return append(badges, badge)
}
