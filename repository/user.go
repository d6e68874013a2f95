package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/microblog-hq/api-go/models"
	"gorm.io/gorm"
)

// UserRepository defines the account directory operations. Lookups signal a
// missing account as (nil, nil) so callers decide presentation.
type UserRepository interface {
	ByID(ctx context.Context, id uint) (*models.User, error)
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, query string, page, pageSize int) ([]models.User, int64, error)
	Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error)
	TouchLastSeen(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.one(ctx, "username = ?", username)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.one(ctx, "email = ?", email)
}

func (r *userRepository) one(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied search input.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *userRepository) Search(ctx context.Context, query string, page, pageSize int) ([]models.User, int64, error) {
	page, pageSize = clampPage(page, pageSize)
	pattern := "%" + likeEscaper.Replace(query) + "%"

	base := r.db.WithContext(ctx).Model(&models.User{}).
		Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, pattern)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := base.Order("username ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

// Suggested returns accounts the user does not follow yet, most recently
// active first.
func (r *userRepository) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	if limit < 1 {
		limit = 10
	}
	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("users.id != ?", userID).
		Where("users.id NOT IN (?)",
			r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)).
		Order("last_seen DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// TouchLastSeen records activity without loading the row or bumping
// updated_at through Save.
func (r *userRepository) TouchLastSeen(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
