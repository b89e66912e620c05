package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	dom "github.com/andradm/Journal-project/internal/domain"
	"github.com/andradm/Journal-project/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNotOwner = errors.New("not the owner")
)

// streamLimit caps the feed and every per-user stream.
const streamLimit = 20

// EntryCache caches feed and per-user stream listings. A nil GetFeed/GetStream
// result means miss.
type EntryCache interface {
	GetFeed(ctx context.Context) ([]dom.Entry, error)
	SetFeed(ctx context.Context, list []dom.Entry) error
	GetStream(ctx context.Context, userID int64) ([]dom.Entry, error)
	SetStream(ctx context.Context, userID int64, list []dom.Entry) error
	Invalidate(ctx context.Context, userID int64) error
}

type EntryService struct {
	repo  repo.EntryRepo
	cache EntryCache
	sf    singleflight.Group
}

// NewEntryService creates an EntryService. If c is nil, caching is disabled.
func NewEntryService(r repo.EntryRepo, c EntryCache) *EntryService {
	return &EntryService{repo: r, cache: c}
}

// Create persists a new entry owned by userID.
func (s *EntryService) Create(ctx context.Context, userID int64, title string, timeSpent int, content, resources string, entryDate time.Time) (dom.Entry, error) {
	e, err := s.repo.Create(ctx, dom.Entry{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		TimeSpent: timeSpent,
		Content:   strings.TrimSpace(content),
		Resources: strings.TrimSpace(resources),
		EntryDate: entryDate,
	})
	if err != nil {
		return dom.Entry{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// Feed returns the newest entries across all users, capped at 20.
func (s *EntryService) Feed(ctx context.Context) ([]dom.Entry, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("feed", func() (interface{}, error) {
			if list, err := s.cache.GetFeed(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListRecent(ctx, streamLimit)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetFeed(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Entry), nil
	}
	return s.repo.ListRecent(ctx, streamLimit)
}

// Stream returns the user's newest entries, capped at 20.
func (s *EntryService) Stream(ctx context.Context, userID int64) ([]dom.Entry, error) {
	if s.cache != nil {
		key := "stream:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetStream(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.ListRecentByOwner(ctx, userID, streamLimit)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetStream(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Entry), nil
	}
	return s.repo.ListRecentByOwner(ctx, userID, streamLimit)
}

// GetByID returns a single entry.
func (s *EntryService) GetByID(ctx context.Context, id int64) (dom.Entry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Entry{}, ErrNotFound
		}
		return dom.Entry{}, err
	}
	return e, nil
}

// Update overwrites the entry's fields. Only the owner may update, ownership
// is decided by comparing user ids, and the owner reference itself never
// changes regardless of the submitted payload.
func (s *EntryService) Update(ctx context.Context, userID, id int64, title string, timeSpent int, content, resources string, entryDate time.Time) (dom.Entry, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Entry{}, err
	}
	if existing.UserID != userID {
		return dom.Entry{}, ErrNotOwner
	}
	patch := existing
	patch.Title = strings.TrimSpace(title)
	patch.TimeSpent = timeSpent
	patch.Content = strings.TrimSpace(content)
	patch.Resources = strings.TrimSpace(resources)
	patch.EntryDate = entryDate
	e, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Entry{}, ErrNotFound
		}
		return dom.Entry{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// Delete removes the entry. Only the owner may delete.
func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *EntryService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
