// Package proxmox is a minimal client for the Proxmox VE REST API,
// covering the read-only calls used for post-provision verification
// and the agent subcommands. Authentication uses the same API token
// that gets written into the MCP server's config.
package proxmox

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Host       string
	Port       int
	VerifySSL  bool
	User       string
	TokenName  string
	TokenValue string
}

func ConfigFromViper() Config {
	return Config{
		Host:       viper.GetString("proxmox.host"),
		Port:       viper.GetInt("proxmox.port"),
		VerifySSL:  viper.GetBool("proxmox.verifyssl"),
		User:       viper.GetString("auth.user"),
		TokenName:  viper.GetString("auth.tokenname"),
		TokenValue: viper.GetString("auth.tokenvalue"),
	}
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, errors.New("proxmox host not set")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: fmt.Sprintf("https://%s:%d/api2/json", cfg.Host, cfg.Port),
		token:   fmt.Sprintf("PVEAPIToken=%s!%s=%s", cfg.User, cfg.TokenName, cfg.TokenValue),
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Second * 10,
		},
	}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "GET %s failed", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return errors.Wrapf(err, "GET %s: malformed response", path)
	}

	return json.Unmarshal(envelope.Data, out)
}

type Version struct {
	Version string `json:"version"`
	Release string `json:"release"`
	RepoID  string `json:"repoid"`
}

func (c *Client) Version(ctx context.Context) (Version, error) {
	var v Version
	err := c.get(ctx, "/version", &v)
	return v, err
}

type Node struct {
	Node   string `json:"node"`
	Status string `json:"status"`
}

func (c *Client) Nodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	err := c.get(ctx, "/nodes", &nodes)
	return nodes, err
}

type VM struct {
	VMID   int    `json:"vmid"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Node   string `json:"node,omitempty"`
}

// VMs lists QEMU VMs on a node, or across all nodes when node is empty.
func (c *Client) VMs(ctx context.Context, node string) ([]VM, error) {
	if node != "" {
		var vms []VM
		err := c.get(ctx, fmt.Sprintf("/nodes/%s/qemu", node), &vms)
		return vms, err
	}

	nodes, err := c.Nodes(ctx)
	if err != nil {
		return nil, err
	}

	var all []VM
	for _, n := range nodes {
		vms, err := c.VMs(ctx, n.Node)
		if err != nil {
			return nil, err
		}
		for i := range vms {
			vms[i].Node = n.Node
		}
		all = append(all, vms...)
	}
	return all, nil
}
