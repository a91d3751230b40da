// Package tables keeps one controller per tenant and table and serializes
// access to each.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/repository"
)

var (
	// ErrTableNotFound indicates a table name that is not configured.
	ErrTableNotFound = errors.New("table not found")
	// ErrNotListable indicates a store that cannot enumerate its namespaces.
	ErrNotListable   = errors.New("store cannot list namespaces")
)

// Definition describes a configured table and its rows.
type Definition struct {
	Name        string
	Title       string
	Columns     []table.Column
	Pinned      []string
	TotalFields []string
	Flags       controller.Flags
	Rows        []table.Row
}

type entry struct {
	mu  sync.Mutex
	tbl *controller.Table
}

// Registry hands out controllers. A controller is built on first use with
// state persisted under "<tenant>/<table>".
type Registry struct {
	defs   map[string]Definition
	store  controller.Store
	locale string
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates a registry over defs.
func NewRegistry(defs []Definition, store controller.Store, locale string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		defs:    make(map[string]Definition, len(defs)),
		store:   store,
		locale:  locale,
		logger:  logger,
		entries: make(map[string]*entry),
	}
	for _, def := range defs {
		r.defs[def.Name] = def
	}
	return r
}

// Names returns the configured table names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Definition returns a configured table.
func (r *Registry) Definition(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Namespace returns the persistence namespace of a tenant's table.
func Namespace(tenant, name string) string {
	return tenant + "/" + name
}

// Tenants reports which tenants have persisted state, with the configured
// tables each one has touched.
func (r *Registry) Tenants(ctx context.Context) (map[string][]string, error) {
	lister, ok := r.store.(repository.KVLister)
	if !ok {
		return nil, ErrNotListable
	}
	namespaces, err := lister.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}

	out := make(map[string][]string)
	for _, ns := range namespaces {
		// <tenant>/<table>/<key>; tenants may contain '/', table names don't.
		owner, _, ok := cutLast(ns)
		if !ok {
			continue
		}
		tenant, name, ok := cutLast(owner)
		if !ok {
			continue
		}
		if _, configured := r.defs[name]; !configured {
			continue
		}
		if !slices.Contains(out[tenant], name) {
			out[tenant] = append(out[tenant], name)
		}
	}
	for tenant := range out {
		slices.Sort(out[tenant])
	}
	return out, nil
}

func cutLast(s string) (before, after string, ok bool) {
	i := strings.LastIndex(s, "/")
	if i <= 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

// With runs fn with exclusive access to the tenant's controller for name.
func (r *Registry) With(ctx context.Context, tenant, name string, fn func(*controller.Table) error) error {
	e, err := r.entry(ctx, tenant, name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.tbl)
}

func (r *Registry) entry(ctx context.Context, tenant, name string) (*entry, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	key := Namespace(tenant, name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		return e, nil
	}
	tbl, err := controller.New(ctx, def.Rows, controller.Options{
		Namespace:   key,
		Title:       def.Title,
		Columns:     def.Columns,
		Pinned:      def.Pinned,
		TotalFields: def.TotalFields,
		Flags:       def.Flags,
		Locale:      r.locale,
		Store:       r.store,
		Logger:      r.logger.With("tenant", tenant, "table", name),
	})
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}
	r.logger.Debug("table opened", "tenant", tenant, "table", name)
	e := &entry{tbl: tbl}
	r.entries[key] = e
	return e, nil
}
