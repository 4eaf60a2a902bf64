package main

import (
	"fmt"
	"log"
	"os"

	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/birdnet-go/birdnet-mcp/pkg/fxapp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	rootCmd := createRootCommand()
	rootCmd.AddCommand(createVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute the command: %v", err)
	}
}

func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "birdnet-mcp",
		Short: "BirdNET-Go MCP Server - instance management over MCP",
		Long: `The BirdNET-Go MCP Server manages a host-local BirdNET-Go instance,
whether it runs as a standalone container or under a systemd unit, and
exposes its status, logs, lifecycle and updates through the Model
Context Protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	addPersistentFlags(rootCmd)

	if err := bindFlags(rootCmd); err != nil {
		log.Fatalf("Failed to bind flags to configuration: %v", err)
	}

	return rootCmd
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "BirdNET-Go MCP Server\n")
			fmt.Fprintf(os.Stderr, "Version: %s\n", Version)
			fmt.Fprintf(os.Stderr, "Build time: %s\n", BuildTime)
		},
	}
}

func runServer() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load the configuration: %w", err)
	}

	fxapp.New(cfg).Run()
	return nil
}

func addPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("transport", "stdio", "transport type (stdio, sse)")
	rootCmd.PersistentFlags().String("host", "localhost", "host of the SSE transport")
	rootCmd.PersistentFlags().Int("port", 8080, "port of the SSE transport")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
	rootCmd.PersistentFlags().String("sudo-path", "/usr/bin/sudo", "path to the sudo executable")
	rootCmd.PersistentFlags().String("container-name", "birdnet-go", "name of the managed container")
	rootCmd.PersistentFlags().String("unit-name", "birdnet-go.service", "name of the managing systemd unit")
	rootCmd.PersistentFlags().Int("health-port", 8080, "port of the instance's health endpoint")
	rootCmd.PersistentFlags().String("log-file", "/var/log/birdnet-go/birdnet.log", "path to the application's structured log file")
}

// bindFlags binds the command line flags to the configuration viper.
// Returns an error if the binding fails for any of the flags.
func bindFlags(rootCmd *cobra.Command) error {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"transport.type", "transport"},
		{"transport.host", "host"},
		{"transport.port", "port"},
		{"log_level", "log-level"},
		{"log_format", "log-format"},
		{"sudo_path", "sudo-path"},
		{"instance.container_name", "container-name"},
		{"instance.unit_name", "unit-name"},
		{"instance.health_port", "health-port"},
		{"instance.log_file", "log-file"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, rootCmd.PersistentFlags().Lookup(binding.flag)); err != nil {
			return fmt.Errorf("failed to bind the flag '%s': %w", binding.flag, err)
		}
	}

	return nil
}
