package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	return r
}

func TestSuccessEnvelope(t *testing.T) {
	r := newEngine()
	r.GET("/ok", func(c *gin.Context) {
		Success(c, http.StatusOK, "Fetched", gin.H{"n": 1})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Fetched", body["message"])
	assert.Equal(t, map[string]interface{}{"n": float64(1)}, body["data"])
	assert.NotContains(t, body, "error")

	meta := body["metadata"].(map[string]interface{})
	assert.Equal(t, w.Header().Get(HeaderRequestID), meta["requestId"])
}

func TestFailEnvelope(t *testing.T) {
	r := newEngine()
	r.GET("/fail", func(c *gin.Context) {
		Fail(c, http.StatusUnauthorized, ErrInvalidCredentials)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid email or password", body.Message)
	assert.Nil(t, body.Data)
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrInvalidCredentials, body.Error.Code)
}

func TestRequestIDReusesValidHeader(t *testing.T) {
	r := newEngine()
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	const supplied = "0b7c9c1e-3c59-4c1e-9d0a-5b1b5d1f6a10"
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, supplied)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, supplied, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "not a uuid\r\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\r\n", w.Body.String())
	assert.Len(t, w.Body.String(), 36)
}

func TestEveryCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrTokenRequired, ErrTokenInvalid, ErrValidation,
		ErrInvalidID, ErrInvalidPayload, ErrEmailTaken, ErrRegistration,
		ErrSchoolRequired, ErrNotFound, ErrUserNotFound, ErrRateLimitExceeded, ErrInternal,
	}
	fallback := GetMessage(ErrCode("UNKNOWN"))
	for _, code := range codes {
		assert.NotEqual(t, fallback, GetMessage(code), string(code))
	}
}
