// Package password derives rotating passwords from a master secret without
// storing anything.
package password

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/bashhack/tltp/internal/clock"
	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/generator"
	"github.com/bashhack/tltp/internal/kdf"
	"github.com/bashhack/tltp/internal/secure"
)

// Variables to allow testing
var maxParallel = func() int { return runtime.GOMAXPROCS(0) }

// Request describes one password to derive.
type Request struct {
	// Name identifies the service. It is used byte for byte: case and
	// whitespace change the password.
	Name      string
	Interval  time.Duration
	Offset    int64
	Size      int
	Generator generator.Generator
}

// Result is a derived password and the window it belongs to.
type Result struct {
	Name     string
	Offset   int64
	Password string
	Window   clock.Window
}

// Manager derives passwords. It holds no secrets between calls.
type Manager struct {
	clock  clock.Clocker
	params kdf.Params
	logger *slog.Logger
}

// NewManager creates a password manager reading time from c and stretching
// secrets with params.
func NewManager(c clock.Clocker, params kdf.Params, logger *slog.Logger) *Manager {
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		clock:  c,
		params: params,
		logger: logger,
	}
}

// Validate checks a request before any secret is read or work is done.
func Validate(req Request) error {
	if req.Name == "" {
		return errs.Input("name must not be empty")
	}
	if req.Size <= 0 {
		return errs.Config("size", fmt.Sprintf("must be positive, got %d", req.Size))
	}
	if req.Generator == nil {
		return errs.Config("generator", "no generator selected")
	}
	if err := generator.ValidateSize(req.Generator, req.Size); err != nil {
		return err
	}
	if _, err := clock.Compute(time.Unix(0, 0), req.Interval, 0); err != nil {
		return err
	}
	return nil
}

// Derive returns the password for req in the window selected by the
// current time and req.Offset.
func (m *Manager) Derive(secret []byte, req Request) (Result, error) {
	results, err := m.deriveAll(context.Background(), secret, []Request{req})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// DeriveNames derives passwords for several names sharing the rest of req.
// Results are in the order of names.
func (m *Manager) DeriveNames(ctx context.Context, secret []byte, names []string, req Request) ([]Result, error) {
	reqs := make([]Request, 0, len(names))
	for _, name := range names {
		r := req
		r.Name = name
		reqs = append(reqs, r)
	}
	return m.deriveAll(ctx, secret, reqs)
}

// DeriveAdjacent derives the previous, selected and next passwords around
// req.Offset, which is what an operator needs while a rotation is in flight.
func (m *Manager) DeriveAdjacent(ctx context.Context, secret []byte, req Request) ([]Result, error) {
	reqs := make([]Request, 0, 3)
	for delta := int64(-1); delta <= 1; delta++ {
		r := req
		r.Offset = req.Offset + delta
		reqs = append(reqs, r)
	}
	return m.deriveAll(ctx, secret, reqs)
}

// deriveAll validates every request, reads the clock once and derives the
// requests in parallel, at most maxParallel() at a time so a memory-hard KDF
// is not running for every request at once. Each derivation owns its
// stream; the secret copy is shared read-only and wiped on return.
func (m *Manager) deriveAll(ctx context.Context, secret []byte, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, errs.Input("at least one name is required")
	}
	for _, req := range reqs {
		if err := Validate(req); err != nil {
			return nil, err
		}
	}
	if len(secret) == 0 {
		return nil, errs.Crypto("master secret must not be empty", nil)
	}

	secretCopy := secure.Clone(secret)
	defer secure.Zero(secretCopy)

	now := m.clock.Now()
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel())
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := m.derive(secretCopy, req, now)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (m *Manager) derive(secret []byte, req Request, now time.Time) (Result, error) {
	start := time.Now()

	window, err := clock.Compute(now, req.Interval, req.Offset)
	if err != nil {
		return Result{}, err
	}

	stream, err := kdf.NewStream(secret, req.Name, window.Index, m.params)
	if err != nil {
		return Result{}, fmt.Errorf("failed to derive key for %q: %w", req.Name, err)
	}
	defer stream.Close()

	pw, err := req.Generator.Generate(stream, req.Size)
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate password for %q: %w", req.Name, err)
	}
	if n := utf8.RuneCountInString(pw); n != req.Size {
		return Result{}, errs.Crypto(fmt.Sprintf("generator returned %d symbols, want %d", n, req.Size), nil)
	}

	m.logger.Debug("password derived",
		"name", req.Name,
		"epoch", window.Index,
		"offset", req.Offset,
		"kdf", m.params.String(),
		"stream_bytes", stream.Consumed(),
		"elapsed", time.Since(start),
	)

	return Result{
		Name:     req.Name,
		Offset:   req.Offset,
		Password: pw,
		Window:   window,
	}, nil
}
