// Package feedline is a typed, backend-polymorphic operator execution and
// image-decoding substrate for data-preprocessing pipelines. Operators are
// registered under a (name, backend) pair with a validated schema; encoded
// images are wrapped in handles that can report their decoded shape without
// paying for a full decode.
package feedline

import (
	"errors"

	"github.com/feedline-ai/feedline/operators"
	"github.com/feedline-ai/feedline/options"
)

// Session binds operator construction to one execution backend and tracks
// the operators it built so they can be torn down together.
type Session struct {
	operators []operators.Operator
	options   *options.Options
}

func newSession(backend string, opts ...options.WithOption) (*Session, error) {
	parsedOptions := options.Defaults()
	parsedOptions.Backend = backend
	for _, option := range opts {
		if err := option(parsedOptions); err != nil {
			return nil, err
		}
	}
	return &Session{options: parsedOptions}, nil
}

// NewCPUSession creates a session whose operators run on the host.
func NewCPUSession(opts ...options.WithOption) (*Session, error) {
	return newSession(options.BackendCPU, opts...)
}

// Backend returns the execution backend this session builds operators for.
func (s *Session) Backend() string {
	return s.options.Backend
}

// NewOperator builds a registered operator for this session's backend.
// Schema violations in args are reported here, before any data flows.
func (s *Session) NewOperator(name string, args operators.Args) (operators.Operator, error) {
	op, err := operators.Build(name, s.options.Backend, args, s.options)
	if err != nil {
		return nil, err
	}
	s.operators = append(s.operators, op)
	return op, nil
}

// NewOperatorFromSpec builds an operator from its serialized spec form.
func (s *Session) NewOperatorFromSpec(spec operators.OpSpec) (operators.Operator, error) {
	return s.NewOperator(spec.Name, spec.Args)
}

// GetStats returns runtime statistics for all operators built by this
// session, for profiling purposes.
func (s *Session) GetStats() []string {
	var stats []string
	for _, op := range s.operators {
		stats = append(stats, op.GetStats()...)
	}
	return stats
}

// Destroy releases the session. Operators built from it must not be invoked
// afterwards.
func (s *Session) Destroy() error {
	s.operators = nil
	var err error
	if s.options != nil {
		err = errors.Join(err, s.options.Destroy())
		s.options = nil
	}
	return err
}
