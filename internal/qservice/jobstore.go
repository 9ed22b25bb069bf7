package qservice

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type (
	// JobStore is an interface for storing allocation jobs. Grounded on the
	// teacher's ProgramStore (internal/qservice/pstore.go): same UUID-keyed,
	// in-memory, mutex-guarded shape, repurposed from storing qprog.Program
	// values to storing allocation Jobs.
	JobStore interface {
		// SaveJob stores j under a freshly generated id and returns it.
		SaveJob(j *Job) (string, error)

		// GetJob returns the job with the given id.
		GetJob(id string) (*Job, error)
	}

	// jobStore is an in-memory implementation of JobStore.
	jobStore struct {
		jobs map[string]*Job
		sync.RWMutex
	}
)

// NewJobStore creates a new in-memory job store.
func NewJobStore() JobStore {
	return &jobStore{
		jobs: make(map[string]*Job),
	}
}

// SaveJob implements JobStore.
func (js *jobStore) SaveJob(j *Job) (string, error) {
	id := uuid.New().String()
	j.ID = id
	js.Lock()
	js.jobs[id] = j
	js.Unlock()
	return id, nil
}

// GetJob implements JobStore.
func (js *jobStore) GetJob(id string) (*Job, error) {
	js.RLock()
	j, ok := js.jobs[id]
	js.RUnlock()
	if !ok {
		return nil, fmt.Errorf("job with id %s not found", id)
	}
	return j, nil
}
