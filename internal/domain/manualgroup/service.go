package manualgroup

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

// Service manages manual groups for one table. A row belongs to at most one
// group; adding it elsewhere moves it.
type Service struct {
	store     Store
	namespace string
	notices   notice.Sink
	logger    *slog.Logger
	groups    []Group
	now       func() time.Time
}

// NewService creates a manual group service persisting under namespace.
func NewService(store Store, namespace string, notices notice.Sink, logger *slog.Logger) *Service {
	if notices == nil {
		notices = notice.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:     store,
		namespace: namespace + "/manual-groups",
		notices:   notices,
		logger:    logger,
		now:       time.Now,
	}
}

// Load reads persisted groups. Unreadable or corrupt data leaves the service
// empty and raises a notice.
func (s *Service) Load(ctx context.Context) error {
	s.groups = nil
	if s.store == nil {
		return nil
	}
	data, err := s.store.Get(ctx, s.namespace)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.logger.Error("reading manual groups failed", "namespace", s.namespace, "error", err)
		s.notices.Notify(notice.Error("persist_failed", fmt.Sprintf("saved manual groups could not be read: %v", err)))
		return nil
	}

	var groups []Group
	if err := json.Unmarshal(data, &groups); err != nil {
		s.logger.Warn("discarding corrupt manual groups", "namespace", s.namespace, "error", err)
		s.notices.Notify(notice.Warn("corrupt_manual_groups", "saved manual groups could not be read and were reset"))
		return nil
	}
	for _, g := range groups {
		if g.ID == "" || len(g.RowIDs) == 0 {
			continue
		}
		s.groups = append(s.groups, g)
	}
	return nil
}

// Groups returns all groups in creation order.
func (s *Service) Groups() []Group {
	out := make([]Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.clone())
	}
	return out
}

// Get returns a group by id.
func (s *Service) Get(id string) (Group, error) {
	idx := s.index(id)
	if idx < 0 {
		return Group{}, ErrGroupNotFound
	}
	return s.groups[idx].clone(), nil
}

// GroupOf returns the id of the group containing rowID.
func (s *Service) GroupOf(rowID string) (string, bool) {
	for _, g := range s.groups {
		if g.Contains(rowID) {
			return g.ID, true
		}
	}
	return "", false
}

// Create allocates a group holding rowIDs.
func (s *Service) Create(ctx context.Context, name string, rowIDs []string) (Group, error) {
	name = strings.TrimSpace(name)
	rowIDs = dedupe(rowIDs)
	if name == "" || len(rowIDs) == 0 {
		return Group{}, ErrInvalidInput
	}

	s.detach(rowIDs, "")
	g := Group{
		ID:        "mg-" + uuid.NewString(),
		Name:      name,
		RowIDs:    rowIDs,
		CreatedAt: s.now(),
	}
	s.groups = append(s.groups, g)
	s.logger.Debug("manual group created", "id", g.ID, "rows", len(rowIDs))
	return g.clone(), s.persist(ctx)
}

// Add appends rows to a group, skipping rows already in it.
func (s *Service) Add(ctx context.Context, groupID string, rowIDs []string) (Group, error) {
	idx := s.index(groupID)
	if idx < 0 {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	rowIDs = dedupe(rowIDs)
	if len(rowIDs) == 0 {
		return Group{}, ErrInvalidInput
	}

	s.detach(rowIDs, groupID)
	// detach may prune other groups and shift indexes.
	idx = s.index(groupID)
	for _, id := range rowIDs {
		if !s.groups[idx].Contains(id) {
			s.groups[idx].RowIDs = append(s.groups[idx].RowIDs, id)
		}
	}
	return s.groups[idx].clone(), s.persist(ctx)
}

// Remove drops one row from a group. A group left empty is deleted.
func (s *Service) Remove(ctx context.Context, groupID, rowID string) error {
	idx := s.index(groupID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	pos := slices.Index(s.groups[idx].RowIDs, rowID)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrNotMember, rowID)
	}
	s.groups[idx].RowIDs = slices.Delete(s.groups[idx].RowIDs, pos, pos+1)
	if len(s.groups[idx].RowIDs) == 0 {
		s.logger.Debug("manual group emptied", "id", groupID)
		s.groups = slices.Delete(s.groups, idx, idx+1)
	}
	return s.persist(ctx)
}

// detach removes rowIDs from every group except keep and prunes empty groups.
func (s *Service) detach(rowIDs []string, keep string) {
	kept := s.groups[:0]
	for _, g := range s.groups {
		if g.ID != keep {
			g.RowIDs = slices.DeleteFunc(g.RowIDs, func(id string) bool {
				return slices.Contains(rowIDs, id)
			})
			if len(g.RowIDs) == 0 {
				continue
			}
		}
		kept = append(kept, g)
	}
	s.groups = kept
}

func (s *Service) index(id string) int {
	return slices.IndexFunc(s.groups, func(g Group) bool { return g.ID == id })
}

func (s *Service) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if len(s.groups) == 0 {
		if err := s.store.Remove(ctx, s.namespace); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %w", ErrPersist, err)
		}
		return nil
	}
	data, err := json.Marshal(s.groups)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.store.Set(ctx, s.namespace, data); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
