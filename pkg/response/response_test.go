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

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   Response
	}{
		{
			name:       "success",
			handler:    func(c *gin.Context) { Success(c, gin.H{"n": 1}) },
			wantStatus: http.StatusOK,
			wantBody:   Response{Status: StatusSuccess, Data: map[string]interface{}{"n": float64(1)}},
		},
		{
			name:       "bad request",
			handler:    func(c *gin.Context) { BadRequest(c, "q is required") },
			wantStatus: http.StatusBadRequest,
			wantBody:   Response{Status: StatusError, Code: "BAD_REQUEST", Message: "q is required"},
		},
		{
			name:       "unauthorized aborts",
			handler:    func(c *gin.Context) { Unauthorized(c, "missing token") },
			wantStatus: http.StatusUnauthorized,
			wantBody:   Response{Status: StatusError, Code: "UNAUTHORIZED", Message: "missing token"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.handler(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			var got Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
