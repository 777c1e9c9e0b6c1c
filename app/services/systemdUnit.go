package services

import (
	"io"
	"path"

	"github.com/coreos/go-systemd/v22/unit"
)

type UnitParams struct {
	Service    string
	User       string
	DeployDir  string
	ConfigPath string
}

// RenderUnit serializes the systemd unit that keeps the MCP server
// running inside the container. Restart policy is on-failure with a
// fixed 5 second backoff.
func RenderUnit(p UnitParams) ([]byte, error) {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", "Proxmox MCP Server ("+p.Service+")"),
		unit.NewUnitOption("Unit", "After", "network-online.target"),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),

		unit.NewUnitOption("Service", "Type", "simple"),
		unit.NewUnitOption("Service", "User", p.User),
		unit.NewUnitOption("Service", "WorkingDirectory", p.DeployDir),
		unit.NewUnitOption("Service", "Environment", "PROXMOX_MCP_CONFIG="+p.ConfigPath),
		unit.NewUnitOption("Service", "ExecStart", path.Join(p.DeployDir, ".venv/bin/python")+" -m proxmox_mcp.server"),
		unit.NewUnitOption("Service", "Restart", "on-failure"),
		unit.NewUnitOption("Service", "RestartSec", "5"),

		unit.NewUnitOption("Install", "WantedBy", "multi-user.target"),
	}

	return io.ReadAll(unit.Serialize(opts))
}
