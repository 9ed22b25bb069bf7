package qservice

import (
	"testing"

	"github.com/kegliz/qalloc/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(logger.LoggerOptions{Debug: true})
}

func bellRequest() AllocateRequest {
	return AllocateRequest{
		Circuit: CircuitSpec{
			Qubits: 4,
			Gates: []GateSpec{
				{Type: "H", Qubits: []int{0}, Step: 0},
				{Type: "CNOT", Qubits: []int{0, 3}, Step: 1},
				{Type: "MEASURE", Qubits: []int{0}, Step: 2},
				{Type: "MEASURE", Qubits: []int{3}, Step: 2},
			},
		},
		Topology: TopologySpec{Name: "line", Size: 4},
	}
}

func TestAllocateStoresAndReturnsJob(t *testing.T) {
	s := NewService(ServiceOptions{})
	l := testLogger()

	job, err := s.Allocate(l, bellRequest())
	require.NoError(t, err)
	require.NotNil(t, job.Solution)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, 4, len(job.Solution.Initial))

	fetched, err := s.GetJob(l, job.ID)
	require.NoError(t, err)
	assert.Same(t, job, fetched)
}

func TestAllocateHonorsPinnedStrategy(t *testing.T) {
	s := NewService(ServiceOptions{})
	req := bellRequest()
	req.Strategy = "bounded-si"

	job, err := s.Allocate(testLogger(), req)
	require.NoError(t, err)
	assert.Equal(t, "bounded-si", job.Solution.Strategy)
}

func TestAllocateRejectsUnknownTopology(t *testing.T) {
	s := NewService(ServiceOptions{})
	req := bellRequest()
	req.Topology.Name = "nonsense"

	_, err := s.Allocate(testLogger(), req)
	assert.Error(t, err)
}

func TestAllocateRejectsUnsupportedGate(t *testing.T) {
	s := NewService(ServiceOptions{})
	req := bellRequest()
	req.Circuit.Gates = append(req.Circuit.Gates, GateSpec{Type: "BOGUS", Qubits: []int{1}, Step: 0})

	_, err := s.Allocate(testLogger(), req)
	assert.Error(t, err)
}

func TestGetJobMissingReturnsError(t *testing.T) {
	s := NewService(ServiceOptions{})
	_, err := s.GetJob(testLogger(), "missing-id")
	assert.Error(t, err)
}
