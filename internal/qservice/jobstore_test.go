package qservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStoreSaveAndGet(t *testing.T) {
	js := NewJobStore()
	job := &Job{Request: AllocateRequest{Circuit: CircuitSpec{Qubits: 2}}}

	id, err := js.SaveJob(job)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, job.ID)

	got, err := js.GetJob(id)
	require.NoError(t, err)
	assert.Same(t, job, got)
}

func TestJobStoreGetMissing(t *testing.T) {
	js := NewJobStore()
	_, err := js.GetJob("does-not-exist")
	assert.Error(t, err)
}

func TestJobStoreSaveAssignsDistinctIDs(t *testing.T) {
	js := NewJobStore()
	id1, err := js.SaveJob(&Job{})
	require.NoError(t, err)
	id2, err := js.SaveJob(&Job{})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}
