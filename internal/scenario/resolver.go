package scenario

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resolver answers whether a named fact holds. Implementations may block on
// I/O; they run before the deduction core and are bounded by a per-call
// timeout.
type Resolver interface {
	Resolve(ctx context.Context, name string) (bool, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name string) (bool, error)

func (f ResolverFunc) Resolve(ctx context.Context, name string) (bool, error) {
	return f(ctx, name)
}

// StaticResolver always answers v.
func StaticResolver(v bool) Resolver {
	return ResolverFunc(func(context.Context, string) (bool, error) {
		return v, nil
	})
}

// EnvResolver resolves a fact from the environment variable prefix+name,
// parsed as a boolean. An unset variable is a resolution failure.
func EnvResolver(prefix string) Resolver {
	return ResolverFunc(func(_ context.Context, name string) (bool, error) {
		raw, ok := os.LookupEnv(prefix + name)
		if !ok {
			return false, fmt.Errorf("environment variable %s%s not set", prefix, name)
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("environment variable %s%s: %w", prefix, name, err)
		}
		return v, nil
	})
}

// Registry maps resolver names to implementations.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]Resolver)}
}

// Register binds a resolver under a name, replacing any previous binding.
func (r *Registry) Register(name string, res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[name] = res
}

// Lookup returns the resolver bound to name.
func (r *Registry) Lookup(name string) (Resolver, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resolvers[name]
	return res, ok
}

type resolution struct {
	name  string
	value bool
	err   error
}

// resolveAll evaluates every fact spec, fanning resolver-backed facts out
// over a worker group. Results keep the spec order, so fact step indices in
// the built system are deterministic.
func (r *Registry) resolveAll(ctx context.Context, facts []FactSpec, timeout time.Duration, logger *zap.Logger) []resolution {
	out := make([]resolution, len(facts))
	g, gctx := errgroup.WithContext(ctx)
	for i, fact := range facts {
		i, fact := i, fact
		out[i].name = fact.Name
		if fact.Value != nil {
			out[i].value = *fact.Value
			continue
		}
		g.Go(func() error {
			res, ok := r.Lookup(fact.Resolver)
			if !ok {
				out[i].err = fmt.Errorf("no resolver registered as %q", fact.Resolver)
				return nil
			}
			callCtx := gctx
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, timeout)
				defer cancel()
			}
			start := time.Now()
			out[i].value, out[i].err = res.Resolve(callCtx, fact.Name)
			logger.Debug("resolved fact",
				zap.String("fact", fact.Name),
				zap.String("resolver", fact.Resolver),
				zap.Bool("value", out[i].value),
				zap.Duration("took", time.Since(start)),
				zap.Error(out[i].err))
			return nil
		})
	}
	_ = g.Wait()
	return out
}
