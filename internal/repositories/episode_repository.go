package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bookvault/internal/models"
)

// EpisodeRepository defines the interface for episode data access.
// Episodes are always addressed through their book.
type EpisodeRepository interface {
	Create(ctx context.Context, episode *models.Episode) error
	GetByID(ctx context.Context, bookID, id string) (*models.Episode, error)
	// ListByBook returns the book's episodes ordered by episode number with
	// like counts filled in.
	ListByBook(ctx context.Context, bookID string) ([]models.Episode, error)
	NumberTaken(ctx context.Context, bookID string, number int) (bool, error)
	Delete(ctx context.Context, bookID, id string) error
	ToggleLike(ctx context.Context, episodeID, userID string) (liked bool, count int64, err error)
}

// GORMEpisodeRepository is a GORM implementation of EpisodeRepository.
type GORMEpisodeRepository struct {
	db *gorm.DB
}

// NewGORMEpisodeRepository creates a new instance of GORMEpisodeRepository.
func NewGORMEpisodeRepository(db *gorm.DB) *GORMEpisodeRepository {
	return &GORMEpisodeRepository{db: db}
}

func (r *GORMEpisodeRepository) Create(ctx context.Context, episode *models.Episode) error {
	if episode.ID == "" {
		episode.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(episode).Error, "create episode")
}

func (r *GORMEpisodeRepository) GetByID(ctx context.Context, bookID, id string) (*models.Episode, error) {
	var episode models.Episode
	if err := r.db.WithContext(ctx).First(&episode, "id = ? AND book_id = ?", id, bookID).Error; err != nil {
		return nil, translate(err, "get episode "+id)
	}
	return &episode, nil
}

type likeCount struct {
	EpisodeID string
	Count     int64
}

func (r *GORMEpisodeRepository) ListByBook(ctx context.Context, bookID string) ([]models.Episode, error) {
	var episodes []models.Episode
	db := r.db.WithContext(ctx)
	if err := db.Where("book_id = ?", bookID).Order("episode_number ASC").Find(&episodes).Error; err != nil {
		return nil, translate(err, "list episodes")
	}
	if len(episodes) == 0 {
		return episodes, nil
	}

	ids := make([]string, len(episodes))
	for i, e := range episodes {
		ids[i] = e.ID
	}
	var counts []likeCount
	err := db.Model(&models.EpisodeLike{}).
		Select("episode_id, COUNT(*) AS count").
		Where("episode_id IN ?", ids).
		Group("episode_id").
		Scan(&counts).Error
	if err != nil {
		return nil, translate(err, "count episode likes")
	}
	byID := make(map[string]int64, len(counts))
	for _, c := range counts {
		byID[c.EpisodeID] = c.Count
	}
	for i := range episodes {
		episodes[i].Likes = byID[episodes[i].ID]
	}
	return episodes, nil
}

func (r *GORMEpisodeRepository) NumberTaken(ctx context.Context, bookID string, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("book_id = ? AND episode_number = ?", bookID, number).
		Count(&count).Error
	return count > 0, translate(err, "check episode number")
}

func (r *GORMEpisodeRepository) Delete(ctx context.Context, bookID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("episode_id = ?", id).Delete(&models.EpisodeLike{}).Error; err != nil {
			return translate(err, "delete likes of episode "+id)
		}
		res := tx.Where("id = ? AND book_id = ?", id, bookID).Delete(&models.Episode{})
		if res.Error != nil {
			return translate(res.Error, "delete episode "+id)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "delete episode "+id)
		}
		return nil
	})
}

func (r *GORMEpisodeRepository) ToggleLike(ctx context.Context, episodeID, userID string) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		liked, err = toggleRow(tx, &models.EpisodeLike{EpisodeID: episodeID, UserID: userID}, "episode_id = ? AND user_id = ?", episodeID, userID)
		if err != nil {
			return err
		}
		return tx.Model(&models.EpisodeLike{}).Where("episode_id = ?", episodeID).Count(&count).Error
	})
	if err != nil {
		return false, 0, translate(err, "toggle episode like")
	}
	return liked, count, nil
}
