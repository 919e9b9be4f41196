package student

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hnthap/classgate/internal/middleware"
	"github.com/hnthap/classgate/internal/service"
)

// DashboardController relays the passive dashboard views.
type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(ds service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: ds}
}

// GetNotes godoc
// @Summary List class notes
// @Tags Student - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.NoteDTO
// @Failure 502 {object} dto.ErrorResponse
// @Router /notes [get]
func (c *DashboardController) GetNotes(ctx *gin.Context) {
	notes, err := c.dashboardService.Notes(ctx.Request.Context(), middleware.Token(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, notes)
}

// GetAssignments godoc
// @Summary List assignments
// @Tags Student - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AssignmentDTO
// @Failure 502 {object} dto.ErrorResponse
// @Router /assignments [get]
func (c *DashboardController) GetAssignments(ctx *gin.Context) {
	assignments, err := c.dashboardService.Assignments(ctx.Request.Context(), middleware.Token(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, assignments)
}

// GetGrades godoc
// @Summary List grades
// @Tags Student - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.GradeDTO
// @Failure 502 {object} dto.ErrorResponse
// @Router /grades [get]
func (c *DashboardController) GetGrades(ctx *gin.Context) {
	grades, err := c.dashboardService.Grades(ctx.Request.Context(), middleware.Token(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, grades)
}

// GetFeedback godoc
// @Summary List assignment feedback
// @Tags Student - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.FeedbackDTO
// @Failure 502 {object} dto.ErrorResponse
// @Router /feedback [get]
func (c *DashboardController) GetFeedback(ctx *gin.Context) {
	feedback, err := c.dashboardService.Feedback(ctx.Request.Context(), middleware.Token(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, feedback)
}
