package proxmox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		baseURL: srv.URL + "/api2/json",
		token:   "PVEAPIToken=root@pam!mcp=tok",
		http:    srv.Client(),
	}
}

func TestVersion(t *testing.T) {
	var gotAuth string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api2/json/version", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]string{"version": "8.2.4", "release": "8.2", "repoid": "faa83925c9641325"},
		})
	}))

	v, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8.2.4", v.Version)
	assert.Equal(t, "PVEAPIToken=root@pam!mcp=tok", gotAuth)
}

func TestNodes(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{
				{"node": "pve1", "status": "online"},
				{"node": "pve2", "status": "online"},
			},
		})
	}))

	nodes, err := client.Nodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "pve1", nodes[0].Node)
}

func TestVMsAcrossNodes(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api2/json/nodes":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]string{{"node": "pve1"}},
			})
		case "/api2/json/nodes/pve1/qemu":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": []map[string]interface{}{{"vmid": 101, "name": "web", "status": "running"}},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	vms, err := client.VMs(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vms, 1)
	assert.Equal(t, 101, vms[0].VMID)
	assert.Equal(t, "pve1", vms[0].Node)
}

func TestUnexpectedStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "authentication failure", http.StatusUnauthorized)
	}))

	_, err := client.Version(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
