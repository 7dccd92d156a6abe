package cmd

import (
	"github.com/nfrund/relay/internal/server"
	"github.com/spf13/cobra"
)

var addrFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Run: func(cmd *cobra.Command, args []string) {
		s := server.New()
		s.RegisterRoutes()

		addr := s.Cfg.Addr
		if addrFlag != "" {
			addr = addrFlag
		}
		s.Start(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides RELAY_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
