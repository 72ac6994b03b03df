package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

type fakeRepository struct {
	items []Notification
}

func (f *fakeRepository) Insert(ctx context.Context, n Notification) error {
	f.items = append(f.items, n)
	return nil
}

func (f *fakeRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	matched := make([]Notification, 0)
	for _, n := range f.items {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID string) error {
	for i, n := range f.items {
		if n.UserID == userID {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeRepository) DeleteByUser(ctx context.Context, userID string) error {
	kept := f.items[:0]
	for _, n := range f.items {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

func TestListNewestFirstWithUnreadCount(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, "user-1", "First", "one", TypeInfo, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Force distinct timestamps for a deterministic order.
	for i := range repo.items {
		if repo.items[i].ID == first.ID {
			repo.items[i].CreatedAt = repo.items[i].CreatedAt.Add(-time.Minute)
		}
	}
	second, err := svc.Create(ctx, "user-1", "Second", "two", TypeSuccess, "b-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", "Other", "not mine", TypeInfo, ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(resp.Notifications))
	}
	if resp.Notifications[0].ID != second.ID {
		t.Fatalf("expected newest first, got %q", resp.Notifications[0].Title)
	}
	if resp.UnreadCount != 2 {
		t.Fatalf("expected unread 2, got %d", resp.UnreadCount)
	}
}

func TestListCapsAtFifty(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 60; i++ {
		n, err := svc.Create(ctx, "user-1", fmt.Sprintf("n-%d", i), "msg", TypeInfo, "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		for j := range repo.items {
			if repo.items[j].ID == n.ID {
				repo.items[j].CreatedAt = base.Add(time.Duration(i) * time.Second)
			}
		}
	}

	resp, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Notifications) != 50 {
		t.Fatalf("expected 50 notifications, got %d", len(resp.Notifications))
	}
	if resp.Notifications[0].Title != "n-59" {
		t.Fatalf("expected newest first, got %q", resp.Notifications[0].Title)
	}
	if resp.UnreadCount != 60 {
		t.Fatalf("unread count must cover all records, got %d", resp.UnreadCount)
	}
}

func TestMarkRead(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	n, err := svc.Create(ctx, "user-1", "Hello", "msg", TypeInfo, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MarkRead(ctx, n.ID, "user-1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Already read: still a success.
	if err := svc.MarkRead(ctx, n.ID, "user-1"); err != nil {
		t.Fatalf("mark read twice: %v", err)
	}

	if err := svc.MarkRead(ctx, "missing", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Another user's notification is invisible.
	if err := svc.MarkRead(ctx, n.ID, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign notification, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "user-1", "Hello", "msg", TypeInfo, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := svc.MarkAllRead(ctx, "user-1"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}

	resp, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.UnreadCount != 0 {
		t.Fatalf("expected unread 0, got %d", resp.UnreadCount)
	}
}
