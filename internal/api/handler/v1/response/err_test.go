package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        *Err
		wantStatus int
		wantCode   string
		wantText   string
	}{
		{
			name:       "conflict",
			err:        ErrConflict(CodeCapacityExhausted, errors.New("capacity exhausted")),
			wantStatus: http.StatusConflict,
			wantCode:   CodeCapacityExhausted,
			wantText:   "capacity exhausted",
		},
		{
			name:       "not found",
			err:        ErrNotFound("exhibition", "exhibitionID", 4),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeNotFound,
			wantText:   "exhibition with exhibitionID=4 not found",
		},
		{
			name:       "internal errors are hidden",
			err:        ErrInternalServerError(errors.New("pq: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
			wantText:   "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)

			RenderErr(ctx, tt.err)

			assert.True(t, ctx.IsAborted())
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantText, body["error"])
			assert.Equal(t, http.StatusText(tt.wantStatus), body["status"])
		})
	}
}
