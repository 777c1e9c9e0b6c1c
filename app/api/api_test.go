package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Strum355/log"
	"github.com/go-chi/chi"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvetools/mcpdeploy/app/config"
)

func TestMain(m *testing.M) {
	log.InitSimpleLogger(&log.Config{})
	os.Exit(m.Run())
}

func newTestAPI(t *testing.T) chi.Router {
	t.Helper()
	viper.Reset()
	config.InitDefaults()

	r := chi.NewRouter()
	require.NoError(t, NewAPI(r).Init())
	return r
}

func TestHealth(t *testing.T) {
	r := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProvisionRequiresSharedSecret(t *testing.T) {
	r := newTestAPI(t)

	// no shared secret configured: endpoint is unavailable
	req := httptest.NewRequest(http.MethodPost, "/v1/provision", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
