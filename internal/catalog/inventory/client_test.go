package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		expected    string
		expectedErr error
		expectErr   bool
	}{
		{name: "ok", status: http.StatusOK, body: `{"upc":"036000291452","quantity":7}`, expected: `{"upc":"036000291452","quantity":7}`},
		{name: "not found", status: http.StatusNotFound, expectedErr: ErrInventoryNotFound},
		{name: "server error", status: http.StatusBadGateway, expectErr: true},
		{name: "invalid json", status: http.StatusOK, body: `not json`, expectErr: true},
		{name: "body at limit", status: http.StatusOK, body: jsonString(maxBodyBytes), expected: jsonString(maxBodyBytes)},
		{name: "body over limit", status: http.StatusOK, body: jsonString(maxBodyBytes + 1), expectedErr: ErrResponseTooLarge},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			client := NewClient(srv.URL+"/", time.Second)

			// when
			record, err := client.Get(context.Background(), "036000291452")

			// then
			assert.Equal(t, "/api/v1/inventory/036000291452", gotPath)
			switch {
			case tc.expectedErr != nil:
				assert.ErrorIs(t, err, tc.expectedErr)
			case tc.expectErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.JSONEq(t, tc.expected, string(record))
			}
		})
	}
}

// jsonString returns a valid JSON string literal of exactly n bytes.
func jsonString(n int) string {
	return `"` + strings.Repeat("a", n-2) + `"`
}

func TestClient_Get_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()
	client := NewClient(srv.URL, 50*time.Millisecond)

	_, err := client.Get(context.Background(), "1")

	assert.Error(t, err)
}
