package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Health(t *testing.T) {
	t.Parallel()

	a, _ := SetupAppTest(t, DefaultConfig())
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestServer_Location(t *testing.T) {
	t.Parallel()

	a, _ := SetupAppTest(t, DefaultConfig())
	h := a.Handler()

	testCases := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		check      func(t *testing.T, body string)
	}{
		{
			name:       "navigate",
			method:     http.MethodPost,
			body:       `{"location": "one/tab=TAB_THREE"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				var st State
				require.NoError(t, json.Unmarshal([]byte(body), &st))
				assert.Equal(t, "one/tab=TAB_THREE", st.Location)
				assert.Equal(t, map[string]string{"tab": "TAB_THREE"}, st.Params)
			},
		},
		{
			name:       "read back",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body string) {
				var st State
				require.NoError(t, json.Unmarshal([]byte(body), &st))
				assert.Equal(t, "one", st.View)
				assert.Equal(t, "showing Tab Three", st.Summary)
			},
		},
		{
			name:       "unknown view",
			method:     http.MethodPost,
			body:       `{"location": "four"}`,
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, "unknown view")
			},
		},
		{
			name:       "bad body",
			method:     http.MethodPost,
			body:       `{"location":`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body string) {
				assert.Contains(t, body, "invalid request body")
			},
		},
	}

	// The cases share one app and run in order.
	for _, tc := range testCases {
		var req *http.Request
		if tc.body != "" {
			req = httptest.NewRequest(tc.method, "/location", strings.NewReader(tc.body))
		} else {
			req = httptest.NewRequest(tc.method, "/location", nil)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, tc.wantStatus, rec.Code, tc.name)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), tc.name)
		tc.check(t, rec.Body.String())
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	a, _ := SetupAppTest(t, DefaultConfig())
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/location", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_CloseWhenNotRunning(t *testing.T) {
	t.Parallel()

	a, _ := SetupAppTest(t, DefaultConfig())
	require.NoError(t, a.closeServer())
}
