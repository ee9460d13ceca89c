package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/repos"
	"github.com/yungbote/mrkr-backend/internal/types"
	"github.com/yungbote/mrkr-backend/internal/utils"
)

type UserService interface {
	Create(ctx context.Context, req domain.UserCreate) (*types.User, error)
	List(ctx context.Context) ([]domain.UserList, error)
}

type userService struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) Create(ctx context.Context, req domain.UserCreate) (*types.User, error) {
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return nil, domain.BadRequest("username must be between 3 and 50 characters")
	}
	if len(req.Password) < 8 {
		return nil, domain.BadRequest("password must be at least 8 characters")
	}

	taken, err := s.userRepo.UsernameExists(ctx, nil, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.BadRequest("username already exists")
	}
	taken, err = s.userRepo.EmailExists(ctx, nil, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.BadRequest("email already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, domain.NewError(domain.ErrorCodeAuth, "hash password", err)
	}

	user, err := s.userRepo.Create(ctx, nil, &types.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]domain.UserList, error) {
	users, err := s.userRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserList, 0, len(users))
	for _, user := range users {
		out = append(out, domain.UserList{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Disabled: user.Disabled,
		})
	}
	return out, nil
}
