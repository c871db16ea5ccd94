package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ofte-auth/ponto/internal/records"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ErrorHandler(t *testing.T) {
	tests := []struct {
		name     string
		apiErr   *APIError
		wantCode int
		wantBody map[string]interface{}
	}{
		{
			"not found",
			NewAPIError(404, ErrRFIDNotRecognized, "identifying card"),
			404,
			map[string]interface{}{"code": float64(404), "error": "RFID não reconhecido", "detail": "identifying card"},
		},
		{
			"remote",
			NewAPIError(502, errors.Wrap(records.ErrRemoteUnavailable, "GET vwAlocacoes"), ""),
			502,
			map[string]interface{}{"code": float64(502), "error": "GET vwAlocacoes: records api unavailable"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.apiErr.BindHTTPRequest(r)
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/processar_rfid", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := map[string]interface{}{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}

	// nothing bound, nothing written
	h := ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/version", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func Test_RemoteError(t *testing.T) {
	assert.Equal(t, 502, remoteError(records.ErrRemoteFormat, "").Code)
	assert.Equal(t, 502, remoteError(errors.Wrap(records.ErrRemoteUnavailable, "x"), "").Code)
	assert.Equal(t, 500, remoteError(errors.New("boom"), "").Code)
}
