package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUnit(t *testing.T) {
	out, err := RenderUnit(UnitParams{
		Service:    "proxmox-mcp",
		User:       "mcp",
		DeployDir:  "/opt/proxmox-mcp",
		ConfigPath: "/opt/proxmox-mcp/proxmox-config/config.json",
	})
	require.NoError(t, err)

	rendered := string(out)
	assert.Contains(t, rendered, "[Unit]")
	assert.Contains(t, rendered, "[Service]")
	assert.Contains(t, rendered, "[Install]")

	assert.Contains(t, rendered, "Description=Proxmox MCP Server (proxmox-mcp)")
	assert.Contains(t, rendered, "After=network-online.target")
	assert.Contains(t, rendered, "User=mcp")
	assert.Contains(t, rendered, "WorkingDirectory=/opt/proxmox-mcp")
	assert.Contains(t, rendered, "Environment=PROXMOX_MCP_CONFIG=/opt/proxmox-mcp/proxmox-config/config.json")
	assert.Contains(t, rendered, "ExecStart=/opt/proxmox-mcp/.venv/bin/python -m proxmox_mcp.server")
	assert.Contains(t, rendered, "Restart=on-failure")
	assert.Contains(t, rendered, "RestartSec=5")
	assert.Contains(t, rendered, "WantedBy=multi-user.target")
}
