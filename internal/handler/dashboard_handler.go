package handler

import (
	"errors"
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// SuperAdmin godoc
// GET /api/dashboard/super-admin
// Returns platform-wide school, subscription and user counts.
func (h *DashboardHandler) SuperAdmin(c *gin.Context) {
	stats, err := h.dashboardService.SuperAdmin(c.Request.Context())
	if err != nil {
		internalError(c, h.log, err, "super admin dashboard failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", stats)
}

// SchoolAdmin godoc
// GET /api/dashboard/school-admin
// Returns counts for the principal's school.
func (h *DashboardHandler) SchoolAdmin(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.SchoolAdmin(c.Request.Context(), claims.SchoolID)
	if err != nil {
		if errors.Is(err, service.ErrSchoolRequired) {
			response.Fail(c, http.StatusBadRequest, response.ErrSchoolRequired)
			return
		}
		internalError(c, h.log, err, "school admin dashboard failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", stats)
}
