package repository

import (
	"context"
	"regexp"
	"strings"

	"github.com/microblog-hq/api-go/models"
	"gorm.io/gorm"
)

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// PostRepository owns the post store and the feed composition over it.
// Posts are immutable once created.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	ByUser(ctx context.Context, userID uint, page, pageSize int) (*PostPage, error)
	Explore(ctx context.Context, hashtag string, page, pageSize int) (*PostPage, error)
	Feed(ctx context.Context, userID uint, page, pageSize int) (*PostPage, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if len(post.Hashtags) == 0 {
		post.Hashtags = ExtractHashtags(post.Body)
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) ByUser(ctx context.Context, userID uint, page, pageSize int) (*PostPage, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)
	return paginatePosts(q, page, pageSize)
}

// Explore lists everyone's posts, newest first, optionally narrowed to a
// hashtag. The filter matches the harvested hashtags column exactly, so
// "go" does not pull in posts tagged "#golang".
func (r *postRepository) Explore(ctx context.Context, hashtag string, page, pageSize int) (*PostPage, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if hashtag != "" {
		tag := strings.TrimPrefix(strings.ToLower(hashtag), "#")
		if r.db.Dialector.Name() == "postgres" {
			q = q.Where("? = ANY(hashtags)", tag)
		} else {
			// Non-array dialects store the pq literal ({a,b}) as text.
			q = q.Where(`',' || TRIM(hashtags, '{}') || ',' LIKE ? ESCAPE '\'`,
				"%,"+likeEscaper.Replace(tag)+",%")
		}
	}
	return paginatePosts(q, page, pageSize)
}

func (r *postRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ExtractHashtags pulls the #tags out of a post body, lowercased and
// deduplicated in order of first appearance.
func ExtractHashtags(body string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
