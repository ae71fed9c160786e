package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"bookvault/internal/models"
	"bookvault/internal/repositories"
	"bookvault/internal/storage"
)

const audioFolder = "books/audio"

// EpisodeService manages the audio episodes of a book.
type EpisodeService struct {
	episodes repositories.EpisodeRepository
	books    repositories.BookRepository
	store    storage.ObjectStore
	log      *zap.Logger
}

func NewEpisodeService(episodes repositories.EpisodeRepository, books repositories.BookRepository, store storage.ObjectStore, log *zap.Logger) *EpisodeService {
	return &EpisodeService{episodes: episodes, books: books, store: store, log: log}
}

// EpisodeInput describes a new episode. Duration is supplied by the client.
type EpisodeInput struct {
	Title         string
	Description   string
	EpisodeNumber int
	Duration      string
}

func (s *EpisodeService) ensureBook(ctx context.Context, bookID string) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

func (s *EpisodeService) Add(ctx context.Context, bookID string, in EpisodeInput, audio *Upload) (*models.Episode, error) {
	if audio == nil {
		return nil, Validation("Audio file is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.EpisodeNumber < 1 {
		return nil, Validation("Title and a positive episodeNumber are required")
	}
	if !isAudio(audio) {
		return nil, Validation("Uploaded file must be an audio file")
	}
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}
	taken, err := s.episodes.NumberTaken(ctx, bookID, in.EpisodeNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEpisodeNumberTaken
	}

	obj, err := uploadFile(ctx, s.store, audioFolder, audio)
	if err != nil {
		return nil, err
	}
	episode := &models.Episode{
		BookID:        bookID,
		Title:         in.Title,
		Description:   strings.TrimSpace(in.Description),
		AudioURL:      obj.URL,
		AudioID:       obj.PublicID,
		Duration:      strings.TrimSpace(in.Duration),
		EpisodeNumber: in.EpisodeNumber,
	}
	if err := s.episodes.Create(ctx, episode); err != nil {
		destroyQuietly(ctx, s.store, s.log, obj.PublicID)
		return nil, fmt.Errorf("failed to add episode: %w", err)
	}
	return episode, nil
}

var audioExts = map[string]bool{".mp3": true, ".m4a": true, ".aac": true, ".wav": true, ".ogg": true, ".flac": true}

func isAudio(up *Upload) bool {
	return strings.HasPrefix(up.ContentType, "audio/") || audioExts[strings.ToLower(path.Ext(up.Filename))]
}

// ListByBook returns the book's episodes in episode order.
func (s *EpisodeService) ListByBook(ctx context.Context, bookID string) ([]models.Episode, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.episodes.ListByBook(ctx, bookID)
}

func (s *EpisodeService) ToggleLike(ctx context.Context, bookID, episodeID, userID string) (bool, int64, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return false, 0, err
	}
	if _, err := s.get(ctx, bookID, episodeID); err != nil {
		return false, 0, err
	}
	return s.episodes.ToggleLike(ctx, episodeID, userID)
}

func (s *EpisodeService) get(ctx context.Context, bookID, id string) (*models.Episode, error) {
	episode, err := s.episodes.GetByID(ctx, bookID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEpisodeNotFound
		}
		return nil, err
	}
	return episode, nil
}

// Delete removes the episode and then its audio.
func (s *EpisodeService) Delete(ctx context.Context, bookID, episodeID string) error {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return err
	}
	episode, err := s.get(ctx, bookID, episodeID)
	if err != nil {
		return err
	}
	if err := s.episodes.Delete(ctx, bookID, episodeID); err != nil {
		return fmt.Errorf("failed to delete episode: %w", err)
	}
	destroyQuietly(ctx, s.store, s.log, episode.AudioID)
	return nil
}

// DeleteMany removes the listed episodes of a book, skipping unknown ids.
func (s *EpisodeService) DeleteMany(ctx context.Context, bookID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, ErrIDsRequired
	}
	if err := s.ensureBook(ctx, bookID); err != nil {
		return 0, err
	}
	deleted := 0
	for _, id := range ids {
		err := s.Delete(ctx, bookID, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, ErrEpisodeNotFound):
		default:
			return deleted, err
		}
	}
	return deleted, nil
}
