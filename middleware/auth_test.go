package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/provision", nil)
	if token != "" {
		req.Header.Set("X-Auth-Token", token)
	}
	rec := httptest.NewRecorder()
	CheckSharedSecret(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestCheckSharedSecretUnconfigured(t *testing.T) {
	viper.Reset()
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(t, "anything").Code)
}

func TestCheckSharedSecretMissingToken(t *testing.T) {
	viper.Reset()
	viper.Set("mcpdeploy.secret", "hunter2")
	assert.Equal(t, http.StatusForbidden, doRequest(t, "").Code)
}

func TestCheckSharedSecretWrongToken(t *testing.T) {
	viper.Reset()
	viper.Set("mcpdeploy.secret", "hunter2")
	assert.Equal(t, http.StatusForbidden, doRequest(t, "wrong").Code)
}

func TestCheckSharedSecretValidToken(t *testing.T) {
	viper.Reset()
	viper.Set("mcpdeploy.secret", "hunter2")
	assert.Equal(t, http.StatusOK, doRequest(t, "hunter2").Code)
}
