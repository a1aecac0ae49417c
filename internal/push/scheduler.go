package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eclatbeaute/eclat/internal/store"
)

const (
	sweepInterval  = time.Hour
	reminderWindow = 24 * time.Hour
)

// Scheduler reminds users of missions expiring within the next day. Each
// mission triggers at most one reminder, deduplicated through the store.
type Scheduler struct {
	mu     sync.RWMutex
	sender *Sender
	push   *store.PushStore
	tasks  *store.TaskStore
	log    *slog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(sender *Sender, pushStore *store.PushStore, taskStore *store.TaskStore, log *slog.Logger) *Scheduler {
	return &Scheduler{
		sender: sender,
		push:   pushStore,
		tasks:  taskStore,
		log:    log.With("component", "push"),
	}
}

// Start begins the hourly sweep loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	now := time.Now().UTC()
	expiring, err := s.tasks.ListExpiringBetween(now, now.Add(reminderWindow))
	if err != nil {
		s.log.Error("list expiring tasks", "error", err)
		return
	}

	for _, task := range expiring {
		refID := fmt.Sprintf("task-expiry-%d", task.ID)
		first, err := s.push.MarkSent(task.UserID, refID)
		if err != nil {
			s.log.Error("mark reminder sent", "task_id", task.ID, "error", err)
			continue
		}
		if !first {
			continue
		}

		subs, err := s.push.ListByUser(task.UserID)
		if err != nil {
			s.log.Error("list subscriptions", "user_id", task.UserID, "error", err)
			continue
		}

		hours := int(time.Until(*task.ExpiresAt).Hours())
		if hours < 1 {
			hours = 1
		}
		payload := Payload{
			Title: "Mission bientôt expirée",
			Body:  fmt.Sprintf("« %s » expire dans moins de %dh. Terminez-la pour gagner %d points !", task.Title, hours, task.Rewards.Points),
			URL:   "/tasks",
			Tag:   refID,
		}

		for i := range subs {
			if err := s.sender.Send(ctx, &subs[i], payload); err != nil {
				if errors.Is(err, ErrExpired) {
					if err := s.push.DeleteByEndpoint(subs[i].Endpoint); err != nil {
						s.log.Error("drop expired subscription", "error", err)
					}
				} else {
					s.log.Error("send reminder", "task_id", task.ID, "error", err)
				}
			}
		}
	}
}
