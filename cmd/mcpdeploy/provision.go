package main

import (
	"context"
	"os"
	"os/exec"

	"github.com/Strum355/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pvetools/mcpdeploy/app/config"
	"github.com/pvetools/mcpdeploy/app/connections"
	"github.com/pvetools/mcpdeploy/app/models/provision"
	host "github.com/pvetools/mcpdeploy/app/repositories/containerHost"
	"github.com/pvetools/mcpdeploy/app/services"
)

func provisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Run one provisioning pass and exit",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runProvision(cmd.Context()); err != nil {
				log.WithError(err).Error("provisioning failed")
				os.Exit(provisionExitCode(err))
			}
			log.Info("provisioning complete")
		},
	}
}

func runProvision(ctx context.Context) error {
	if err := connections.EstablishConnections(); err != nil {
		return err
	}

	config.PrintSettings()

	service, err := services.NewProvisionService()
	if err != nil {
		return err
	}

	return service.Provision(ctx, provision.FromConfig())
}

// Precondition failures exit 1; anything that died in an external tool
// propagates that tool's exit code.
func provisionExitCode(err error) int {
	if errors.Is(err, services.ErrNotRoot) || errors.Is(err, host.ErrHostExists) {
		return 1
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}
