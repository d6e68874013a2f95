package repository

import (
	"context"

	"github.com/microblog-hq/api-go/models"
	"gorm.io/gorm"
)

const DefaultPageSize = 20

// PostPage is one window of a reverse-chronological post listing.
type PostPage struct {
	Posts   []models.Post
	Total   int64
	HasNext bool
	HasPrev bool
}

// Feed returns one page of the viewer's timeline: their own posts merged
// with the posts of every account they follow, globally sorted newest first
// before the window is cut. Paginating the two sources independently and
// stitching them together would shift page boundaries, so the merge happens
// in a single query.
func (r *postRepository) Feed(ctx context.Context, userID uint, page, pageSize int) (*PostPage, error) {
	followed := r.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	q := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ? OR user_id IN (?)", userID, followed)

	return paginatePosts(q, page, pageSize)
}

// paginatePosts cuts a page out of an already-filtered post query. Ties on
// the timestamp break on id so the overall order is deterministic.
// Out-of-range pages clamp: page < 1 reads as 1, a page past the end comes
// back empty with HasPrev still reported truthfully.
func paginatePosts(q *gorm.DB, page, pageSize int) (*PostPage, error) {
	page, pageSize = clampPage(page, pageSize)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	var posts []models.Post
	err := q.Preload("User").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:   posts,
		Total:   total,
		HasNext: int64(offset+len(posts)) < total,
		HasPrev: page > 1 && total > 0,
	}, nil
}

func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
