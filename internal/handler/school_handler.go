package handler

import (
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SchoolHandler handles school endpoints.
type SchoolHandler struct {
	schoolService *service.SchoolService
	log           zerolog.Logger
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(schoolService *service.SchoolService, log zerolog.Logger) *SchoolHandler {
	return &SchoolHandler{
		schoolService: schoolService,
		log:           log.With().Str("component", "school_handler").Logger(),
	}
}

// ListSchools godoc
// GET /api/schools?page=0&size=10
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}

	page, err := h.schoolService.List(c.Request.Context(), p)
	if err != nil {
		internalError(c, h.log, err, "list schools failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", page)
}
