package operators

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/feedline-ai/feedline/options"
	"github.com/feedline-ai/feedline/util/safeconv"
)

// Operator is a backend-specialized, schema-validated unit of work. It is
// constructed once from configuration at pipeline-build time and invoked once
// per batch. A single instance is not safe for concurrent invocation.
type Operator interface {
	Name() string
	Backend() string
	Schema() Schema
	Run(ws *Workspace) error
	GetStats() []string
}

// Factory builds an operator instance from validated arguments.
type Factory func(args Args, opts *options.Options) (Operator, error)

type registryKey struct {
	name    string
	backend string
}

type registration struct {
	schema  Schema
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[registryKey]registration{}
)

// Register installs an operator under a (name, backend) pair. Operators
// register themselves from init(), so duplicates and bad registrations are
// programmer errors and panic.
func Register(name, backend string, schema Schema, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if name == "" || backend == "" {
		panic("operators: Register requires a name and a backend")
	}
	if factory == nil {
		panic(fmt.Sprintf("operators: nil factory for %s/%s", name, backend))
	}
	key := registryKey{name: name, backend: backend}
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("operators: duplicate registration for %s/%s", name, backend))
	}
	registry[key] = registration{schema: schema, factory: factory}
}

// GetSchema returns the registered schema for a (name, backend) pair.
func GetSchema(name, backend string) (Schema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[registryKey{name: name, backend: backend}]
	return reg.schema, ok
}

// Names lists registered operator names, deduplicated across backends.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	seen := map[string]bool{}
	var names []string
	for key := range registry {
		if !seen[key.name] {
			seen[key.name] = true
			names = append(names, key.name)
		}
	}
	sort.Strings(names)
	return names
}

// Build validates args against the registered schema and constructs the
// operator. Schema violations surface here, before first invocation.
func Build(name, backend string, args Args, opts *options.Options) (Operator, error) {
	registryMu.RLock()
	reg, ok := registry[registryKey{name: name, backend: backend}]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigError{Op: name, Reason: fmt.Sprintf("no registration for backend %q", backend)}
	}
	normalized, err := reg.schema.ValidateArgs(name, args)
	if err != nil {
		return nil, err
	}
	return reg.factory(normalized, opts)
}

// checkArity verifies the workspace matches the operator's declared arity.
func checkArity(op string, schema Schema, ws *Workspace) error {
	if ws.NumInputs() != schema.NumInputs {
		return fmt.Errorf("operator %s declares %d inputs, workspace has %d", op, schema.NumInputs, ws.NumInputs())
	}
	if ws.NumOutputs() != schema.NumOutputs {
		return fmt.Errorf("operator %s declares %d outputs, workspace has %d", op, schema.NumOutputs, ws.NumOutputs())
	}
	return nil
}

// base carries the identity and run statistics shared by operator
// implementations.
type base struct {
	name    string
	backend string
	schema  Schema
	timings timings
}

type timings struct {
	NumCalls uint64
	TotalNS  uint64
}

func (b *base) Name() string    { return b.name }
func (b *base) Backend() string { return b.backend }
func (b *base) Schema() Schema  { return b.schema }

func (b *base) record(start time.Time) {
	atomic.AddUint64(&b.timings.NumCalls, 1)
	atomic.AddUint64(&b.timings.TotalNS, safeconv.DurationToU64(time.Since(start)))
}

func (b *base) GetStats() []string {
	calls := atomic.LoadUint64(&b.timings.NumCalls)
	total := atomic.LoadUint64(&b.timings.TotalNS)
	return []string{
		fmt.Sprintf("Statistics for operator: %s (%s)", b.name, b.backend),
		fmt.Sprintf("Run: Total time=%s, Execution count=%d, Average run time=%s",
			safeconv.U64ToDuration(total),
			calls,
			time.Duration(float64(total)/math.Max(1, float64(calls)))),
	}
}
