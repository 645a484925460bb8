package handler

import (
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StudentHandler handles student endpoints.
type StudentHandler struct {
	studentService *service.StudentService
	log            zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(studentService *service.StudentService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		log:            log.With().Str("component", "student_handler").Logger(),
	}
}

// ListStudents godoc
// GET /api/students?page=0&size=10&schoolId=<uuid>
// Lists students joined with their user record, optionally for one school.
func (h *StudentHandler) ListStudents(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}

	var filter model.StudentFilter
	if raw := c.Query("schoolId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		filter.SchoolID = &id
	}

	page, err := h.studentService.List(c.Request.Context(), filter, p)
	if err != nil {
		internalError(c, h.log, err, "list students failed")
		return
	}

	response.Success(c, http.StatusOK, "OK", page)
}
