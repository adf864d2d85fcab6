package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestOKEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		OK(c, http.StatusOK, gin.H{"id": "abc"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestOKMessageEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		OKMessage(c, http.StatusOK, "done")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
}

func TestFailEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "documentation not found")
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "documentation not found", body["error"])
}

func TestFailFieldEnvelope(t *testing.T) {
	_, body := record(func(c *gin.Context) {
		FailField(c, http.StatusBadRequest, "email already registered", "email")
	})

	assert.Equal(t, false, body["success"])
	assert.Equal(t, "email", body["field"])
}
