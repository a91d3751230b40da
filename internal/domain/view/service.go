package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/repository"
)

// Service keeps the saved views of one table. Names are unique: saving under
// an existing name replaces that view.
type Service struct {
	store     Store
	namespace string
	notices   notice.Sink
	logger    *slog.Logger
	views     []Snapshot
	current   string
	now       func() time.Time
}

// NewService creates a view service persisting under namespace.
func NewService(store Store, namespace string, notices notice.Sink, logger *slog.Logger) *Service {
	if notices == nil {
		notices = notice.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:     store,
		namespace: namespace,
		notices:   notices,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) viewsKey() string   { return s.namespace + "/views" }
func (s *Service) currentKey() string { return s.namespace + "/current-view" }

// Load reads saved views and the current view pointer. Unreadable or corrupt
// data is discarded with a notice.
func (s *Service) Load(ctx context.Context) error {
	s.views = nil
	s.current = ""
	if s.store == nil {
		return nil
	}

	data, err := s.store.Get(ctx, s.viewsKey())
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		s.readFailed("views", err)
	default:
		var views []Snapshot
		if err := json.Unmarshal(data, &views); err != nil {
			s.logger.Warn("discarding corrupt views", "namespace", s.namespace, "error", err)
			s.notices.Notify(notice.Warn("corrupt_views", "saved views could not be read and were reset"))
		} else {
			s.views = dedupeByName(views)
		}
	}

	data, err = s.store.Get(ctx, s.currentKey())
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		s.readFailed("current view", err)
	default:
		var id string
		if err := json.Unmarshal(data, &id); err != nil || s.index(id) < 0 {
			s.notices.Notify(notice.Warn("stale_current_view", "the current view pointer was reset"))
		} else {
			s.current = id
		}
	}
	return nil
}

func (s *Service) readFailed(what string, err error) {
	s.logger.Error("reading "+what+" failed", "namespace", s.namespace, "error", err)
	s.notices.Notify(notice.Error("persist_failed", fmt.Sprintf("saved %s could not be read: %v", what, err)))
}

// List returns saved views in save order.
func (s *Service) List() []Summary {
	out := make([]Summary, 0, len(s.views))
	for _, v := range s.views {
		out = append(out, Summary{
			ID:        v.ID,
			Name:      v.Name,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
			Current:   v.ID == s.current,
		})
	}
	return out
}

// Get returns a saved view by id.
func (s *Service) Get(id string) (Snapshot, error) {
	idx := s.index(id)
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return s.views[idx].Clone(), nil
}

// FindByName returns a saved view by name.
func (s *Service) FindByName(name string) (Snapshot, bool) {
	idx := s.indexByName(strings.TrimSpace(name))
	if idx < 0 {
		return Snapshot{}, false
	}
	return s.views[idx].Clone(), true
}

// Save upserts snap by name. An existing view keeps its id and creation time.
func (s *Service) Save(ctx context.Context, snap Snapshot) (Snapshot, error) {
	snap = snap.Clone()
	snap.Name = strings.TrimSpace(snap.Name)
	if snap.Name == "" {
		return Snapshot{}, ErrInvalidName
	}

	now := s.now()
	snap.UpdatedAt = now
	if idx := s.indexByName(snap.Name); idx >= 0 {
		snap.ID = s.views[idx].ID
		snap.CreatedAt = s.views[idx].CreatedAt
		s.views[idx] = snap
	} else {
		snap.ID = "view-" + uuid.NewString()
		snap.CreatedAt = now
		s.views = append(s.views, snap)
	}
	s.logger.Debug("view saved", "namespace", s.namespace, "id", snap.ID, "name", snap.Name)
	return snap.Clone(), s.persistViews(ctx)
}

// Delete removes a saved view. Deleting the current view clears the pointer.
func (s *Service) Delete(ctx context.Context, id string) error {
	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	s.views = slices.Delete(s.views, idx, idx+1)
	if err := s.persistViews(ctx); err != nil {
		return err
	}
	if s.current == id {
		return s.ResetCurrent(ctx)
	}
	return nil
}

// Clear removes every saved view and the current pointer.
func (s *Service) Clear(ctx context.Context) error {
	s.views = nil
	if err := s.persistViews(ctx); err != nil {
		return err
	}
	return s.ResetCurrent(ctx)
}

// Current returns the view last applied, if any.
func (s *Service) Current() (Snapshot, bool) {
	idx := s.index(s.current)
	if s.current == "" || idx < 0 {
		return Snapshot{}, false
	}
	return s.views[idx].Clone(), true
}

// SetCurrent marks id as the applied view.
func (s *Service) SetCurrent(ctx context.Context, id string) error {
	if s.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	s.current = id
	if s.store == nil {
		return nil
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.store.Set(ctx, s.currentKey(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// ResetCurrent clears the current view pointer.
func (s *Service) ResetCurrent(ctx context.Context) error {
	s.current = ""
	if s.store == nil {
		return nil
	}
	if err := s.store.Remove(ctx, s.currentKey()); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Service) persistViews(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if len(s.views) == 0 {
		if err := s.store.Remove(ctx, s.viewsKey()); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		return nil
	}
	data, err := json.Marshal(s.views)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.store.Set(ctx, s.viewsKey(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func (s *Service) index(id string) int {
	return slices.IndexFunc(s.views, func(v Snapshot) bool { return v.ID == id })
}

func (s *Service) indexByName(name string) int {
	return slices.IndexFunc(s.views, func(v Snapshot) bool { return v.Name == name })
}

// dedupeByName keeps the last view per name, at the position of the first.
func dedupeByName(views []Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(views))
	for _, v := range views {
		if v.ID == "" || strings.TrimSpace(v.Name) == "" {
			continue
		}
		if idx := slices.IndexFunc(out, func(o Snapshot) bool { return o.Name == v.Name }); idx >= 0 {
			out[idx] = v
			continue
		}
		out = append(out, v)
	}
	return out
}
