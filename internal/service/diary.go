package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Skotchmaster/diary/internal/events"
	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/models"
	"github.com/Skotchmaster/diary/internal/repo"
	"github.com/google/uuid"
)

type EntryRepo interface {
	CreateEntry(ctx context.Context, e *models.DiaryEntry) error
	ListEntries(ctx context.Context, userID string) ([]models.DiaryEntry, error)
	GetEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error)
	UpdateEntry(ctx context.Context, id, userID, title, content string) (*models.DiaryEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error)
	SearchEntries(ctx context.Context, userID, query string, offset, limit int) (int64, []models.DiaryEntry, error)
}

// Searcher is an optional full-text index kept next to the store.
type Searcher interface {
	IndexEntry(ctx context.Context, e models.DiaryEntry) error
	DeleteEntry(ctx context.Context, id string) error
	Search(ctx context.Context, userID, query string, from, size int) (int64, []models.DiaryEntry, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// DiaryService gives every operation to the owner of an entry only. Entries of
// other users look exactly like entries that do not exist.
type DiaryService struct {
	Repo   EntryRepo
	Search Searcher
	Events EventPublisher
	Now    func() time.Time
}

type SearchResult struct {
	Total   int64
	Entries []models.DiaryEntry
}

func (s *DiaryService) Create(ctx context.Context, userID, title, content string) (models.DiaryEntry, error) {
	if err := validateEntry(title, content); err != nil {
		return models.DiaryEntry{}, err
	}

	at := now(s.Now)
	entry := models.DiaryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := s.Repo.CreateEntry(ctx, &entry); err != nil {
		logging.FromContext(ctx).Error("create_entry_error", "status", 500, "user_id", userID, "error", err)
		return models.DiaryEntry{}, storeError("create entry", err)
	}

	s.index(ctx, entry)
	publish(ctx, s.Events, entryEvent(events.EntryCreated, entry, at))
	return entry, nil
}

// List returns the owner's entries, newest first.
func (s *DiaryService) List(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	entries, err := s.Repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, storeError("list entries", err)
	}
	return entries, nil
}

func (s *DiaryService) Get(ctx context.Context, userID, id string) (models.DiaryEntry, error) {
	entry, err := s.Repo.GetEntry(ctx, id, userID)
	if err != nil {
		return models.DiaryEntry{}, entryError("get entry", err)
	}
	return *entry, nil
}

func (s *DiaryService) Update(ctx context.Context, userID, id, title, content string) (models.DiaryEntry, error) {
	if err := validateEntry(title, content); err != nil {
		return models.DiaryEntry{}, err
	}

	entry, err := s.Repo.UpdateEntry(ctx, id, userID, title, content)
	if err != nil {
		return models.DiaryEntry{}, entryError("update entry", err)
	}

	s.index(ctx, *entry)
	publish(ctx, s.Events, entryEvent(events.EntryUpdated, *entry, entry.UpdatedAt))
	return *entry, nil
}

func (s *DiaryService) Delete(ctx context.Context, userID, id string) error {
	entry, err := s.Repo.DeleteEntry(ctx, id, userID)
	if err != nil {
		return entryError("delete entry", err)
	}

	if s.Search != nil {
		if err := s.Search.DeleteEntry(ctx, entry.ID); err != nil {
			logging.FromContext(ctx).Warn("search_unindex_failed", "entry_id", entry.ID, "error", err)
		}
	}
	publish(ctx, s.Events, entryEvent(events.EntryDeleted, *entry, now(s.Now)))
	return nil
}

// SearchEntries matches query against the owner's titles and contents. The
// full-text index answers when configured; the store answers otherwise.
func (s *DiaryService) SearchEntries(ctx context.Context, userID, query string, from, size int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, validationError("Search query is required")
	}

	if s.Search != nil {
		total, entries, err := s.Search.Search(ctx, userID, query, from, size)
		if err == nil {
			return SearchResult{Total: total, Entries: entries}, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "user_id", userID, "error", err)
	}

	total, entries, err := s.Repo.SearchEntries(ctx, userID, query, from, size)
	if err != nil {
		return SearchResult{}, storeError("search entries", err)
	}
	return SearchResult{Total: total, Entries: entries}, nil
}

func (s *DiaryService) index(ctx context.Context, e models.DiaryEntry) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexEntry(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "entry_id", e.ID, "error", err)
	}
}

func validateEntry(title, content string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return validationError("Title and content are required.")
	}
	return nil
}

func entryError(op string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrEntryNotFound
	}
	return storeError(op, err)
}

func entryEvent(typ string, e models.DiaryEntry, at time.Time) events.Event {
	return events.Event{
		Type:       typ,
		UserID:     e.UserID,
		EntryID:    e.ID,
		Title:      e.Title,
		OccurredAt: at,
	}
}

func publish(ctx context.Context, p EventPublisher, ev events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", ev.Type, "user_id", ev.UserID, "error", err)
	}
}
