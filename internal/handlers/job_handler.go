package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/devxpawan/smart-spend-sub002/internal/errors"
	"github.com/devxpawan/smart-spend-sub002/internal/scheduler"
)

// JobHandler exposes the job registry for operators: listing schedules
// and last-run state, and triggering a job outside its schedule.
type JobHandler struct {
	scheduler *scheduler.Scheduler
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(s *scheduler.Scheduler) *JobHandler {
	return &JobHandler{scheduler: s}
}

// ListJobs returns every registered job with its spec and run bookkeeping.
func (h *JobHandler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": h.scheduler.Jobs()})
}

// TriggerJob runs the named job immediately and reports its outcome.
func (h *JobHandler) TriggerJob(c *gin.Context) {
	name := c.Param("name")

	err := h.scheduler.RunNow(name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"job": name, "status": "ok"})
	case errors.Is(err, scheduler.ErrUnknownJob):
		respondWithError(c, apperrors.ErrJobNotFound)
	case errors.Is(err, scheduler.ErrAlreadyRunning):
		respondWithError(c, apperrors.ErrJobAlreadyRun)
	default:
		// The job ran and failed; the run itself was already logged.
		c.JSON(http.StatusOK, gin.H{"job": name, "status": "failed", "error": err.Error()})
	}
}
