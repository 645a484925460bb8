package handler

import (
	"net/http"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/middleware"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/pagination"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/response"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// internalError logs err against the request id and sends the generic 500.
func internalError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().Err(err).
		Str("request_id", response.RequestID(c)).
		Str("path", c.FullPath()).
		Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// bindPage parses ?page&size, writing a 400 and returning false on bad input.
func bindPage(c *gin.Context) (pagination.Params, bool) {
	p, err := pagination.Bind(c)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return pagination.Params{}, false
	}
	return p, true
}

// requireClaims returns the principal, writing a 401 when the auth
// middleware did not run.
func requireClaims(c *gin.Context) (*service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return claims, true
}

// parseIDParam parses the :name path parameter as a uuid.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
