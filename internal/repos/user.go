package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/mrkr-backend/internal/domain"
	"github.com/yungbote/mrkr-backend/internal/logger"
	"github.com/yungbote/mrkr-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.User, error)
	UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "create user", err)
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var user types.User
	if err := transaction.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("user %d not found", id)
		}
		return nil, domain.NewError(domain.ErrorCodeStorage, "get user", err)
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var users []*types.User
	if err := transaction.WithContext(ctx).Order("id asc").Find(&users).Error; err != nil {
		return nil, domain.NewError(domain.ErrorCodeStorage, "list users", err)
	}
	return users, nil
}

func (r *userRepo) UsernameExists(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	return r.exists(ctx, tx, "username = ?", username)
}

func (r *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return r.exists(ctx, tx, "email = ?", email)
}

func (r *userRepo) exists(ctx context.Context, tx *gorm.DB, query string, arg any) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.User{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return false, domain.NewError(domain.ErrorCodeStorage, "check user exists", err)
	}
	return count > 0, nil
}
