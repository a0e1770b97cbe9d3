package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{code: ErrInvalidToken, status: http.StatusUnauthorized},
		{code: ErrInsufficientPrivilege, status: http.StatusForbidden},
		{code: ErrPipelineRunning, status: http.StatusConflict},
		{code: ErrNotMaterialized, status: http.StatusNotFound},
		{code: "UNKNOWN", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, tt.code, "mensagem", nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "mensagem", body.Message)
		})
	}
}
