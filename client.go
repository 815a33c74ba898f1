package quill

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/quillorm/quill/casing"
	"github.com/quillorm/quill/crud"
	"github.com/quillorm/quill/dialect"
	"github.com/quillorm/quill/querybuilder"
	"github.com/quillorm/quill/registry"
	"github.com/quillorm/quill/relation"
	"github.com/quillorm/quill/sqlconv"
	"github.com/quillorm/quill/table"
)

// Config parameterizes createDb. Exactly one of URL, DriverHandle, or
// RawQueryFn should be set to supply the database connection; DriverHandle
// and RawQueryFn both bypass URL-based connection entirely (DriverHandle
// wraps an already-open *sql.DB, RawQueryFn substitutes an arbitrary
// QueryFn — the in-memory fake path §6.5 explicitly allows for tests).
type Config struct {
	URL          string
	Dialect      string
	DriverHandle *sql.DB
	Models       []registry.Entry
	Pool         sqlconv.PoolConfig
	Casing       casing.Style
	RawQueryFn   sqlconv.QueryFn
	Cache        Cache
	Log          func(...any)
}

// Internals is the client's read-only `_internals` surface.
type Internals struct {
	Models      map[string]registry.Model
	Dialect     dialect.Dialect
	TenantGraph registry.TenantGraph
}

// Client is the assembled façade: a per-model delegate for every
// registered model, plus the top-level query/close/isHealthy/_internals
// surface described in spec §6.1.
type Client struct {
	models    map[string]*ModelClient
	dialect   dialect.Dialect
	reg       *registry.Registry
	adapter   *sqlconv.Adapter
	queryFn   sqlconv.QueryFn
	log       func(...any)
	internals Internals
}

// NewClient assembles a Client from cfg: it builds the model registry
// (validating reserved names, duplicate models, and relation integrity),
// opens or adopts a driver connection, constructs one crud.Engine per
// model, and wires each engine's relation resolver against the others —
// the same two-phase construction the registry itself uses for lazy
// relation.Target thunks, since an engine cannot resolve a sibling engine
// that doesn't exist yet.
func NewClient(cfg Config) (*Client, error) {
	reg, err := registry.New(cfg.Models...)
	if err != nil {
		return nil, Validation(err.Error())
	}

	logFn := cfg.Log
	if logFn == nil {
		logFn = func(args ...any) { log.Println(args...) }
	}

	d, queryFn, adapter, err := resolveDriver(cfg, logFn)
	if err != nil {
		return nil, err
	}
	if cfg.Casing != "" {
		d = casing.Wrap(d, cfg.Casing)
	}

	var cache crud.Cache
	if cfg.Cache != nil {
		cache = cacheAdapter{cfg.Cache}
	}

	engines := make(map[string]*crud.Engine, len(reg.Models))
	for name, m := range reg.Models {
		engines[name] = crud.New(d, queryFn, crud.Model{Table: m.Table, Relations: m.Relations}, cache, logFn)
	}

	tableToModel := make(map[*table.Table]string, len(reg.Models))
	for name, m := range reg.Models {
		tableToModel[m.Table] = name
	}
	for name, m := range reg.Models {
		engine := engines[name]
		relations := m.Relations
		engine.Resolve = func(relName string) (*crud.Engine, relation.Def, bool) {
			rel, ok := relations[relName]
			if !ok {
				return nil, relation.Def{}, false
			}
			def := rel.Descriptor()
			target := def.Target()
			childModel, ok := tableToModel[target]
			if !ok {
				return nil, relation.Def{}, false
			}
			return engines[childModel], def, true
		}
	}

	models := make(map[string]*ModelClient, len(engines))
	for name, e := range engines {
		models[name] = &ModelClient{engine: e, name: name}
	}

	return &Client{
		models:  models,
		dialect: d,
		reg:     reg,
		adapter: adapter,
		queryFn: queryFn,
		log:     logFn,
		internals: Internals{
			Models:      reg.Models,
			Dialect:     d,
			TenantGraph: reg.TenantGraph,
		},
	}, nil
}

func resolveDriver(cfg Config, logFn func(...any)) (dialect.Dialect, sqlconv.QueryFn, *sqlconv.Adapter, error) {
	switch {
	case cfg.RawQueryFn != nil:
		d := dialect.Get(cfg.Dialect)
		if d == nil {
			return nil, nil, nil, Validation("rawQueryFn requires a known dialect name")
		}
		return d, cfg.RawQueryFn, nil, nil
	case cfg.DriverHandle != nil:
		a := sqlconv.NewAdapter(cfg.DriverHandle, cfg.Dialect, cfg.Pool, logFn)
		return a.Dialect(), a.QueryFn(), a, nil
	default:
		a, err := sqlconv.Open(cfg.Dialect, cfg.URL, cfg.Pool, logFn)
		if err != nil {
			return nil, nil, nil, NewError(KindConnection, "", "failed to open database", err)
		}
		return a.Dialect(), a.QueryFn(), a, nil
	}
}

// Model returns the per-model delegate for name, or false if no model by
// that name was registered.
func (c *Client) Model(name string) (*ModelClient, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Query runs a raw SQL fragment and returns its rows/row-count untyped —
// callers annotate the row type, per spec §6.4.
func (c *Client) Query(ctx context.Context, frag querybuilder.Fragment) (sqlconv.Result, error) {
	text, params := frag.Render(c.dialect)
	return c.queryFn(ctx, text, params)
}

// Close releases the underlying connection pool. A no-op when the client
// was constructed with RawQueryFn (there is no pool to release).
func (c *Client) Close() error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close()
}

// IsHealthy issues a cheap round trip through the driver.
func (c *Client) IsHealthy(ctx context.Context) bool {
	if c.adapter == nil {
		_, err := c.queryFn(ctx, "SELECT 1", nil)
		return err == nil
	}
	return c.adapter.IsHealthy(ctx)
}

// Internals exposes the client's read-only model/dialect/tenant-graph
// surface.
func (c *Client) Internals() Internals { return c.internals }

// cacheAdapter adapts the root Cache interface to crud.Cache — identical
// method shapes, just two distinct interface types on either side of the
// package boundary crud.Cache exists to avoid (see crud/engine.go).
type cacheAdapter struct{ c Cache }

func (a cacheAdapter) Get(ctx context.Context, key string) ([]byte, error) { return a.c.Get(ctx, key) }
func (a cacheAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return a.c.Set(ctx, key, value, ttl)
}
func (a cacheAdapter) Delete(ctx context.Context, key string) error { return a.c.Delete(ctx, key) }
func (a cacheAdapter) DeletePrefix(ctx context.Context, prefix string) error {
	return a.c.DeletePrefix(ctx, prefix)
}
