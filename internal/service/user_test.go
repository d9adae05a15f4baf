package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/toolshed/internal/apperror"
)

func TestUserGet(t *testing.T) {
	store := newMockStore()
	user := seedMockUser(t, store, "octocat")
	svc := NewUserService(store, testLogger())

	found, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found.Login != "octocat" {
		t.Errorf("Login = %q, want %q", found.Login, "octocat")
	}

	_, err = svc.Get(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() unknown error = %v, want ErrNotFound", err)
	}
}

// A GitHub login works in place of the internal ID.
func TestUserGet_ByLogin(t *testing.T) {
	store := newMockStore()
	user := seedMockUser(t, store, "octocat")
	svc := NewUserService(store, testLogger())

	found, err := svc.Get(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("Get(login) error = %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("ID = %q, want %q", found.ID, user.ID)
	}
}

func TestUserList_EmptyIsError(t *testing.T) {
	store := newMockStore()
	svc := NewUserService(store, testLogger())

	var appErr *apperror.AppError
	_, err := svc.List(context.Background())
	if !errors.As(err, &appErr) || appErr.Message != "There are no users." {
		t.Errorf("List() error = %v, want %q", err, "There are no users.")
	}

	seedMockUser(t, store, "octocat")
	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 1 {
		t.Errorf("List() returned %d users, want 1", len(users))
	}
}
