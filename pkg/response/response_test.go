package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"looppilot/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) { Error(c, err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_TaxonomyCode(t *testing.T) {
	w, body := perform(t, apperr.New(apperr.CodeNotConnected, "mailbox not connected"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "not_connected", body["error"])
	assert.Equal(t, "mailbox not connected", body["message"])
}

func TestError_UnknownErrorHidesDetails(t *testing.T) {
	w, body := perform(t, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal_error", body["error"])
	assert.Equal(t, "internal server error", body["message"])
}
