package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Math","extra":1}`))
	w := httptest.NewRecorder()
	require.NoError(t, DecodeJSON(w, r, &body))
	assert.Equal(t, "Math", body.Title)
}

func TestDecodeJSONRejectsBadInput(t *testing.T) {
	for name, raw := range map[string]string{
		"empty":      "",
		"malformed":  `{"title":`,
		"wrong type": `{"title": 5}`,
	} {
		t.Run(name, func(t *testing.T) {
			var body struct {
				Title string `json:"title"`
			}
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(raw))
			w := httptest.NewRecorder()

			assert.Error(t, DecodeJSON(w, r, &body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", Email: "a@x.com"})
	id, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
}
