package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestWrite(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{policy.Invalid("rating", "Rating must be between 1 and 5."), http.StatusBadRequest, "validation_error", "Rating must be between 1 and 5."},
		{policy.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "authentication required"},
		{fmt.Errorf("%w: nope", policy.ErrPermissionDenied), http.StatusForbidden, "permission_denied", "permission denied: nope"},
		{policy.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
		{policy.ErrConflict, http.StatusConflict, "conflict", "conflict"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Write(c, tt.err)

		assert.Equal(t, tt.status, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.code, body["code"])
		assert.Equal(t, tt.msg, body["error"])
	}
}

func TestParseID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}, {Key: "bad", Value: "x"}, {Key: "zero", Value: "0"}}

	id, err := ParseID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParseID(c, "bad")
	assert.ErrorIs(t, err, policy.ErrValidation)
	_, err = ParseID(c, "zero")
	assert.ErrorIs(t, err, policy.ErrValidation)
}
