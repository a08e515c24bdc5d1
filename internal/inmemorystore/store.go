package inmemorystore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/vk/taskgrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store. Records are kept
// in a sync.Map keyed by task name; each record's state is an atomic so that
// the Pending → Running claim is a single compare-and-set.
type Store struct {
	records sync.Map // Key: task name, Value: *record
}

type record struct {
	state atomic.Int32
	mu    sync.Mutex
	err   error
}

// New creates a new, empty in-memory record store.
func New() *Store {
	return &Store{}
}

var _ nodestore.Store = (*Store)(nil)

func (s *Store) record(task string) *record {
	if r, ok := s.records.Load(task); ok {
		return r.(*record)
	}
	r, _ := s.records.LoadOrStore(task, &record{})
	return r.(*record)
}

// Status returns the state of a task. Unknown tasks are Pending.
func (s *Store) Status(ctx context.Context, task string) nodestore.Status {
	r, ok := s.records.Load(task)
	if !ok {
		return nodestore.Pending
	}
	return nodestore.Status(r.(*record).state.Load())
}

// Claim moves a task from Pending to Running.
func (s *Store) Claim(ctx context.Context, task string) bool {
	return s.record(task).state.CompareAndSwap(int32(nodestore.Pending), int32(nodestore.Running))
}

// Succeed moves a Running task to Succeeded.
func (s *Store) Succeed(ctx context.Context, task string) error {
	r := s.record(task)
	if !r.state.CompareAndSwap(int32(nodestore.Running), int32(nodestore.Succeeded)) {
		return &nodestore.TransitionError{Task: task, From: nodestore.Status(r.state.Load()), To: nodestore.Succeeded}
	}
	return nil
}

// Fail moves a Pending or Running task to Failed.
func (s *Store) Fail(ctx context.Context, task string, cause error) error {
	r := s.record(task)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.CompareAndSwap(int32(nodestore.Running), int32(nodestore.Failed)) &&
		!r.state.CompareAndSwap(int32(nodestore.Pending), int32(nodestore.Failed)) {
		return &nodestore.TransitionError{Task: task, From: nodestore.Status(r.state.Load()), To: nodestore.Failed}
	}
	r.err = cause
	return nil
}

// Skip moves a Pending task to Skipped.
func (s *Store) Skip(ctx context.Context, task string, reason error) bool {
	r := s.record(task)
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.CompareAndSwap(int32(nodestore.Pending), int32(nodestore.Skipped)) {
		return false
	}
	r.err = reason
	return true
}

// Err returns the recorded failure cause or skip reason.
func (s *Store) Err(ctx context.Context, task string) error {
	v, ok := s.records.Load(task)
	if !ok {
		return nil
	}
	r := v.(*record)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
