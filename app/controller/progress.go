package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vibast-solutions/ms-go-campaigns/app/campaign"
)

// ProgressController serves read-only campaign progress over HTTP so a
// long-running send can be watched without tailing logs.
type ProgressController struct {
	scheduler *campaign.Scheduler
}

// NewProgressController constructs the HTTP progress controller.
func NewProgressController(scheduler *campaign.Scheduler) *ProgressController {
	return &ProgressController{scheduler: scheduler}
}

// Progress returns the current run snapshot.
func (c *ProgressController) Progress(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.scheduler.Progress())
}
