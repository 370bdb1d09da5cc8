package abstractapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"StorefrontAPI/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		rejected bool
	}{
		{"clean address", http.StatusOK, `{"email_deliverability":{"status":"deliverable"},"email_quality":{"score":0.9}}`, false},
		{"disposable", http.StatusOK, `{"email_quality":{"is_disposable":true}}`, true},
		{"role address", http.StatusOK, `{"email_quality":{"is_role":true}}`, true},
		{"legacy low reputation", http.StatusOK, `{"email_reputation":"LOW"}`, true},
		{"legacy disposable", http.StatusOK, `{"is_disposable_email":true}`, true},
		{"undeliverable", http.StatusOK, `{"email_deliverability":{"status":"undeliverable"}}`, true},
		{"api down lets the address through", http.StatusServiceUnavailable, ``, false},
		{"garbage body lets the address through", http.StatusOK, `{not json`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
				assert.Equal(t, "ada@example.com", r.URL.Query().Get("email"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v, err := NewAbstractReputationValidator("secret", nil)
			require.NoError(t, err)
			err = v.WithBaseURL(srv.URL).Validate(context.Background(), "ada@example.com")
			if tt.rejected {
				assert.ErrorIs(t, err, services.ErrEmailRejected)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAbstractReputationValidator_RequiresKey(t *testing.T) {
	_, err := NewAbstractReputationValidator("", nil)
	assert.Error(t, err)
}
