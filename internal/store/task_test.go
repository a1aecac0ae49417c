package store

import (
	"testing"
	"time"

	"github.com/eclatbeaute/eclat/internal/database"
	"github.com/eclatbeaute/eclat/internal/model"
)

func setupTaskTestDB(t *testing.T) (*TaskStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	us := NewUserStore(db)
	u, err := us.Create("claire@example.com", "claire", "hash", model.RoleCustomer)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewTaskStore(db), u.ID
}

func newTestTask(userID int64) *model.Task {
	return &model.Task{
		UserID:      userID,
		Type:        model.TaskOnboarding,
		Category:    model.CategorySkincare,
		Title:       "Première routine",
		Description: "Suivez votre routine du matin",
		Icon:        "✨",
		Rewards:     model.Rewards{Points: 20, DiscountPoints: 5},
		Status:      model.TaskPending,
		Progress:    model.Progress{Current: 0, Target: 1},
	}
}

func TestTaskCreateAndGet(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	created, err := ts.Create(newTestTask(userID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.Status != model.TaskPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if created.Rewards.Points != 20 || created.Rewards.DiscountPoints != 5 {
		t.Errorf("rewards = %+v", created.Rewards)
	}

	got, err := ts.GetByID(created.ID, userID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got == nil || got.Title != "Première routine" {
		t.Errorf("got = %+v", got)
	}
}

func TestTaskGetScopedToOwner(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	created, err := ts.Create(newTestTask(userID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := ts.GetByID(created.ID, userID+1)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("task should not be visible to another user")
	}
}

func TestTaskListFilters(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	a := newTestTask(userID)
	if _, err := ts.Create(a); err != nil {
		t.Fatalf("create task: %v", err)
	}
	b := newTestTask(userID)
	b.Type = model.TaskDaily
	b.Category = model.CategoryHaircare
	b.Status = model.TaskInProgress
	if _, err := ts.Create(b); err != nil {
		t.Fatalf("create task: %v", err)
	}

	all, err := ts.List(userID, TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(all))
	}

	daily, err := ts.List(userID, TaskFilter{Type: model.TaskDaily})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(daily) != 1 || daily[0].Category != model.CategoryHaircare {
		t.Errorf("daily = %+v", daily)
	}

	pending, err := ts.List(userID, TaskFilter{Status: model.TaskPending})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(pending) != 1 || pending[0].Type != model.TaskOnboarding {
		t.Errorf("pending = %+v", pending)
	}
}

func TestTaskCreateBatch(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	batch := []model.Task{*newTestTask(userID), *newTestTask(userID), *newTestTask(userID)}
	batch[1].Title = "Masque capillaire"
	batch[2].Title = "Premier avis"

	created, err := ts.CreateBatch(batch)
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("expected 3 created tasks, got %d", len(created))
	}
	for _, task := range created {
		if task.ID == 0 {
			t.Errorf("task %q missing id", task.Title)
		}
	}

	all, err := ts.List(userID, TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tasks in store, got %d", len(all))
	}
}

func TestTaskStats(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	for _, status := range []model.TaskStatus{model.TaskPending, model.TaskPending, model.TaskInProgress, model.TaskCompleted} {
		task := newTestTask(userID)
		task.Status = status
		if _, err := ts.Create(task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	stats, err := ts.Stats(userID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Pending != 2 || stats.InProgress != 1 || stats.Completed != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTaskDelete(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	created, err := ts.Create(newTestTask(userID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	deleted, err := ts.Delete(created.ID, userID+1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Error("delete should be scoped to the owner")
	}

	deleted, err = ts.Delete(created.ID, userID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Error("expected owner delete to succeed")
	}
}

func TestTaskDeleteExpired(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	stale := newTestTask(userID)
	stale.ExpiresAt = &past
	if _, err := ts.Create(stale); err != nil {
		t.Fatalf("create task: %v", err)
	}

	fresh := newTestTask(userID)
	fresh.ExpiresAt = &future
	if _, err := ts.Create(fresh); err != nil {
		t.Fatalf("create task: %v", err)
	}

	done := newTestTask(userID)
	done.Status = model.TaskCompleted
	done.ExpiresAt = &past
	if _, err := ts.Create(done); err != nil {
		t.Fatalf("create task: %v", err)
	}

	n, err := ts.DeleteExpired(userID, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d tasks, want 1 (completed tasks stay)", n)
	}

	remaining, err := ts.List(userID, TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining tasks, got %d", len(remaining))
	}
}

func TestTaskListExpiringBetween(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	now := time.Now().UTC()
	soon := now.Add(6 * time.Hour)
	later := now.Add(48 * time.Hour)

	expiring := newTestTask(userID)
	expiring.ExpiresAt = &soon
	if _, err := ts.Create(expiring); err != nil {
		t.Fatalf("create task: %v", err)
	}

	distant := newTestTask(userID)
	distant.ExpiresAt = &later
	if _, err := ts.Create(distant); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := ts.ListExpiringBetween(now, now.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("list expiring: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 expiring task, got %d", len(got))
	}
	if got[0].ExpiresAt == nil || !got[0].ExpiresAt.Before(now.Add(24*time.Hour)) {
		t.Errorf("unexpected task %+v", got[0])
	}
}

func TestTaskListStatusOrdering(t *testing.T) {
	ts, userID := setupTaskTestDB(t)

	pending := newTestTask(userID)
	if _, err := ts.Create(pending); err != nil {
		t.Fatalf("create task: %v", err)
	}
	completed := newTestTask(userID)
	completed.Status = model.TaskCompleted
	if _, err := ts.Create(completed); err != nil {
		t.Fatalf("create task: %v", err)
	}
	inProgress := newTestTask(userID)
	inProgress.Status = model.TaskInProgress
	if _, err := ts.Create(inProgress); err != nil {
		t.Fatalf("create task: %v", err)
	}

	all, err := ts.List(userID, TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Statuses sort lexicographically: completed, in-progress, pending.
	want := []model.TaskStatus{model.TaskCompleted, model.TaskInProgress, model.TaskPending}
	if len(all) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(all))
	}
	for i, status := range want {
		if all[i].Status != status {
			t.Errorf("position %d: status = %q, want %q", i, all[i].Status, status)
		}
	}
}
