package loyalty

import (
	"testing"

	"github.com/eclatbeaute/eclat/internal/model"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{200, 3},
		{1000, 11},
		{-5, 1},
	}
	for _, c := range cases {
		if got := Level(c.points); got != c.want {
			t.Errorf("Level(%d) = %d, want %d", c.points, got, c.want)
		}
	}
}

func TestLevelBadge(t *testing.T) {
	if got := LevelBadge(3); got != "🏆 Niveau 3" {
		t.Errorf("LevelBadge(3) = %q", got)
	}
}

func TestAddBadge(t *testing.T) {
	badges := []string{}
	badges = AddBadge(badges, "🌟 Débutant")
	badges = AddBadge(badges, "🏆 Niveau 2")
	badges = AddBadge(badges, "🌟 Débutant")

	if len(badges) != 2 {
		t.Fatalf("badges = %v, want 2 entries", badges)
	}
	if badges[0] != "🌟 Débutant" || badges[1] != "🏆 Niveau 2" {
		t.Errorf("order not preserved: %v", badges)
	}
}

func TestClampProgress(t *testing.T) {
	if got := ClampProgress(-3, 5); got != 0 {
		t.Errorf("ClampProgress(-3, 5) = %d", got)
	}
	if got := ClampProgress(7, 5); got != 5 {
		t.Errorf("ClampProgress(7, 5) = %d", got)
	}
	if got := ClampProgress(2, 5); got != 2 {
		t.Errorf("ClampProgress(2, 5) = %d", got)
	}
}

func TestNextStatus(t *testing.T) {
	if got := NextStatus(0, 3); got != model.TaskPending {
		t.Errorf("NextStatus(0, 3) = %q", got)
	}
	if got := NextStatus(1, 3); got != model.TaskInProgress {
		t.Errorf("NextStatus(1, 3) = %q", got)
	}
	if got := NextStatus(3, 3); got != model.TaskCompleted {
		t.Errorf("NextStatus(3, 3) = %q", got)
	}
}

func TestCheckActive(t *testing.T) {
	if err := CheckActive(model.TaskPending); err != nil {
		t.Errorf("pending task rejected: %v", err)
	}
	if err := CheckActive(model.TaskInProgress); err != nil {
		t.Errorf("in-progress task rejected: %v", err)
	}
	if err := CheckActive(model.TaskCompleted); err != ErrAlreadyCompleted {
		t.Errorf("completed task: err = %v", err)
	}
	if err := CheckActive(model.TaskExpired); err != ErrTaskExpired {
		t.Errorf("expired status: err = %v", err)
	}
}
