package main

import (
	"os"

	"github.com/Strum355/log"
	"github.com/spf13/cobra"

	"github.com/pvetools/mcpdeploy/app/config"
	"github.com/pvetools/mcpdeploy/utils/must"
)

func main() {
	must.Do(config.Load)
	log.InitSimpleLogger(&log.Config{})

	root := &cobra.Command{
		Use:   "mcpdeploy",
		Short: "Provisions a Proxmox VE container running the ProxmoxMCP server",
		Long: `mcpdeploy creates a single LXC container on a Proxmox VE host,
installs the ProxmoxMCP server inside it and registers it as a systemd
service. All parameters are environment variables with defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(provisionCmd(), serveCmd(), agentCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}
