package repository

import (
	"context"
	"errors"

	"github.com/microblog-hq/api-go/models"
	"gorm.io/gorm"
)

// FollowRepository owns the follow graph. All invariant checks (no
// self-loop, at most one edge per pair) live here rather than on the user
// entity.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID uint) error
	Unfollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	Followers(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error)
	Following(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error)
	FollowerCount(ctx context.Context, userID uint) (int64, error)
	FollowingCount(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the (follower, followed) edge if it does not exist yet.
// Self-follows and repeated follows are silent no-ops. The check and the
// insert run in one transaction; if a concurrent request wins the race the
// unique index rejects the duplicate and that too is a no-op.
func (r *followRepository) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}
		return nil
	})
}

// Unfollow removes the edge if present; removing a missing edge is a no-op.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) Followers(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	return r.adjacency(ctx, userID, "followed_id", "follower_id", page, pageSize)
}

func (r *followRepository) Following(ctx context.Context, userID uint, page, pageSize int) ([]models.User, int64, error) {
	return r.adjacency(ctx, userID, "follower_id", "followed_id", page, pageSize)
}

// adjacency pages through one side of the edge table joined back to users.
func (r *followRepository) adjacency(ctx context.Context, userID uint, whereCol, joinCol string, page, pageSize int) ([]models.User, int64, error) {
	page, pageSize = clampPage(page, pageSize)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where(whereCol+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN follows ON follows."+joinCol+" = users.id").
		Where("follows."+whereCol+" = ?", userID).
		Order("follows.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *followRepository) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *followRepository) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
