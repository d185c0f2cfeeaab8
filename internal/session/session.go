// Package session owns the DAG of managers a single codenav session needs:
// one parse-cache pool, one symbol index, one access/change tracker, and
// the resolver and refactoring engine built on top of them. It is the
// concrete expression of spec.md §9's "treat each manager as a value owned
// by a session context; pass the context as an explicit parameter rather
// than relying on globals" — replacing the teacher's long-lived singleton
// *mcp.Server with a value constructed once per project root and threaded
// through every call instead of held in package-level state.
package session

import (
	"context"
	"os"

	"github.com/riftline/codenav/internal/access"
	"github.com/riftline/codenav/internal/config"
	"github.com/riftline/codenav/internal/errs"
	"github.com/riftline/codenav/internal/refactor"
	"github.com/riftline/codenav/internal/resolver"
	"github.com/riftline/codenav/internal/symbolindex"
	"github.com/riftline/codenav/internal/treepool"
)

// Context bundles every manager a request needs. Exactly one is built per
// project root; internal/langid remains the sole package-level immutable
// value per spec.md §9's explicit carve-out.
type Context struct {
	Root     string
	Config   *config.Config
	Log      *DiagnosticLogger
	Pool     *treepool.Pool
	Index    *symbolindex.Index
	Access   *access.Manager
	Resolver *resolver.Resolver
	Refactor *refactor.Manager
}

// Option customizes New.
type Option func(*options)

type options struct {
	isMCP bool
}

// WithMCPLogging routes diagnostics to a file instead of stderr, for use
// when the session backs an MCP-protocol adapter that needs clean stdio.
func WithMCPLogging() Option {
	return func(o *options) { o.isMCP = true }
}

// New resolves root's configuration and constructs every manager the
// session needs. root must exist and be a directory.
func New(root string, opts ...Option) (*Context, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, errs.New(errs.DirectoryNotFound, "project root does not exist").
			WithContext("root", root)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	pool := treepool.New()
	idx := symbolindex.New(pool)
	acc := access.NewManager()
	res := resolver.New(pool, idx)
	refMgr := refactor.NewManager(pool, acc)

	return &Context{
		Root:     root,
		Config:   cfg,
		Log:      NewDiagnosticLogger(o.isMCP),
		Pool:     pool,
		Index:    idx,
		Access:   acc,
		Resolver: res,
		Refactor: refMgr,
	}, nil
}

// Build runs a full symbol-index build over Root, blocking until it
// completes, fails, or ctx is cancelled.
func (c *Context) Build(ctx context.Context) error {
	c.Log.Printf("building symbol index for %s", c.Root)
	if err := c.Index.Build(ctx, c.Root); err != nil {
		c.Log.Errorf("index build failed: %v", err)
		return err
	}
	return nil
}

// RefactorContext builds the refactor.Context this session's managers
// back, scoped to the given request context.
func (c *Context) RefactorContext(ctx context.Context) *refactor.Context {
	return &refactor.Context{
		Ctx:      ctx,
		Pool:     c.Pool,
		Index:    c.Index,
		Resolver: c.Resolver,
		Access:   c.Access,
		Tx:       c.Refactor,
	}
}

// Close releases session resources (currently just the diagnostic log
// file, if one is open).
func (c *Context) Close() error {
	return c.Log.Close()
}
