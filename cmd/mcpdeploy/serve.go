package main

import (
	"net/http"

	"github.com/Strum355/log"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pvetools/mcpdeploy/app/api"
	"github.com/pvetools/mcpdeploy/app/config"
	"github.com/pvetools/mcpdeploy/app/connections"
	"github.com/pvetools/mcpdeploy/utils/must"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the provisioning worker as an HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			r := chi.NewRouter()

			must.Do(connections.EstablishConnections)

			config.PrintSettings()

			must.Do(api.NewAPI(r).Init)
			log.Info("API server started")

			if err := http.ListenAndServe(":"+viper.GetString("http.port"), r); err != nil {
				log.WithError(err).Error("error starting server")
			}
		},
	}

	cmd.Flags().String("port", "", "sets the port the worker listens on")
	cmd.PreRun = func(c *cobra.Command, args []string) {
		if port, _ := c.Flags().GetString("port"); port != "" {
			viper.Set("http.port", port)
		}
	}

	return cmd
}
