package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aeonis-sim/aeonis/internal/daemon"
)

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to listen on (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveSeedFile, "seed", "", "Seed document to build the served world from (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	serveHost     string
	servePort     int
	serveSeedFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tick engine as a long-lived daemon",
	Long:  `Start the HTTP/SSE API server and advance the world tick by tick on a fixed interval.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	if serveHost != "" {
		d.Config.API.Host = serveHost
	}
	if servePort > 0 {
		d.Config.API.Port = servePort
	}
	if serveSeedFile != "" {
		d.Config.Engine.SeedFile = serveSeedFile
	}

	return d.Serve(context.Background())
}
