package cli

import (
	"github.com/spf13/cobra"

	"github.com/openmuse/muse/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation pipeline over websocket",
		Long:  "Starts the websocket server (/ws) and health endpoint (/health).",
		Args:  cobra.NoArgs,
		Run:   runServe,
	}
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, log, cleanup := setup()
	defer cleanup()

	eng, mem, err := buildEngine(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("initialize pipeline", err)
	}
	defer mem.Close()

	srv, err := server.New(server.Config{Engine: eng, Logger: log})
	if err != nil {
		exitErr("initialize server", err)
	}
	if err := srv.Run(cfg.ListenAddr); err != nil {
		exitErr("serve", err)
	}
}
