package services

import (
	"context"
	"testing"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

func newUserService(t *testing.T) UserService {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	return NewUserService(db, log, repos.NewUserRepo(db, log))
}

func TestUserService_CreateHashesPassword(t *testing.T) {
	service := newUserService(t)

	user, err := service.Create(context.Background(), domain.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.Password == "correct-horse" {
		t.Fatalf("password stored in plain text")
	}
	if !utils.CheckPassword(user.Password, "correct-horse") {
		t.Fatalf("stored hash does not verify")
	}
}

func TestUserService_CreateValidation(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, domain.UserCreate{Username: "ab", Email: "a@b.c", Password: "longenough"}); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("short username: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
	if _, err := service.Create(ctx, domain.UserCreate{Username: "alice", Email: "a@b.c", Password: "short"}); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("short password: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
}

func TestUserService_CreateRejectsDuplicates(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	if _, err := service.Create(ctx, domain.UserCreate{Username: "alice", Email: "alice@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := service.Create(ctx, domain.UserCreate{Username: "alice", Email: "other@example.com", Password: "correct-horse"}); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("duplicate username: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
	if _, err := service.Create(ctx, domain.UserCreate{Username: "bob", Email: "alice@example.com", Password: "correct-horse"}); !domain.IsCode(err, domain.ErrorCodeBadRequest) {
		t.Fatalf("duplicate email: want code=%s got=%v", domain.ErrorCodeBadRequest, err)
	}
}

func TestUserService_List(t *testing.T) {
	service := newUserService(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		if _, err := service.Create(ctx, domain.UserCreate{Username: name, Email: name + "@example.com", Password: "correct-horse"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	users, err := service.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("users want=2 got=%d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("unexpected listing order: %+v", users)
	}
}
