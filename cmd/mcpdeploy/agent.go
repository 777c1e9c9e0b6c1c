package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvetools/mcpdeploy/app/connections"
)

// agentCmd exposes a few read-only Proxmox API calls that use the same
// credentials the generated MCP config carries. Handy for checking the
// token works before (or after) provisioning.
func agentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Read-only helpers against the Proxmox API",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Show Proxmox API version information",
			RunE: func(c *cobra.Command, args []string) error {
				client, err := connections.GetProxmox()
				if err != nil {
					return err
				}
				version, err := client.Version(c.Context())
				if err != nil {
					return err
				}
				return printJSON(version)
			},
		},
		&cobra.Command{
			Use:   "nodes",
			Short: "List nodes",
			RunE: func(c *cobra.Command, args []string) error {
				client, err := connections.GetProxmox()
				if err != nil {
					return err
				}
				nodes, err := client.Nodes(c.Context())
				if err != nil {
					return err
				}
				return printJSON(nodes)
			},
		},
		vmsCmd(),
	)

	return cmd
}

func vmsCmd() *cobra.Command {
	var node string

	cmd := &cobra.Command{
		Use:   "vms",
		Short: "List virtual machines",
		RunE: func(c *cobra.Command, args []string) error {
			client, err := connections.GetProxmox()
			if err != nil {
				return err
			}
			vms, err := client.VMs(c.Context(), node)
			if err != nil {
				return err
			}
			return printJSON(vms)
		},
	}

	cmd.Flags().StringVar(&node, "node", "", "restrict VM listing to a specific node")

	return cmd
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
