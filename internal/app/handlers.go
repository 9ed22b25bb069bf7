package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kegliz/qalloc/internal/qservice"
)

var badRequestErrorMsg = "Bad Request - please contact the administrator"
var internalServerErrorMsg = "Internal Server Error - please contact the administrator"

// RootHandler is the handler for the / endpoint
func (a *appServer) RootHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving root endpoint")

	c.HTML(http.StatusOK, "index.tmpl", gin.H{"title": "Quantum Playground DEV"})
}

// HealthHandler is the handler for the /health endpoint
func (a *appServer) HealthHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving health endpoint")
	c.String(http.StatusOK, "OK")
}

// Allocate is the handler for the POST /api/allocate endpoint. It accepts a
// circuit plus a coupling-graph topology, runs the allocator driver, stores
// the resulting job and returns it (initial mapping, per-dependency swaps,
// cost, strategy used).
func (a *appServer) Allocate(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	l.Debug().Msg("serving allocation endpoint")

	var req qservice.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Error().Err(err).Msg("binding JSON failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	if req.Circuit.Qubits <= 0 || req.Circuit.Qubits > 64 {
		l.Error().Int("qubits", req.Circuit.Qubits).Msg("invalid qubit count")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid qubit count (1-64 allowed)"})
		return
	}

	job, err := a.qs.Allocate(l, req)
	if err != nil {
		l.Error().Err(err).Msg("allocation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetJob is the handler for the GET /api/allocate/:id endpoint.
func (a *appServer) GetJob(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		panic("logger not found in context")
	}
	id := c.Param("id")
	l.Debug().Str("id", id).Msg("serving job fetch endpoint")

	job, err := a.qs.GetJob(l, id)
	if err != nil {
		l.Warn().Err(err).Str("id", id).Msg("job not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}
