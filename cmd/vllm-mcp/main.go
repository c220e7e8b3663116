// Command vllm-mcp runs the multimodal MCP gateway.
//
// Configuration is layered: built-in defaults, then an optional JSON or
// YAML config file, then environment variables, then flags.
//
// Environment variables:
//
//	VLLM_MCP_CONFIG     - Config file path (default: ./config.json, ./config.yaml)
//	VLLM_MCP_TRANSPORT  - Transport: "stdio", "http", or "sse" (default: stdio)
//	VLLM_MCP_HOST       - Listen host for http/sse (default: localhost)
//	VLLM_MCP_PORT       - Listen port for http/sse (default: 8080)
//	VLLM_MCP_LOG_LEVEL  - TRACE, DEBUG, INFO, WARN, or ERROR (default: INFO)
//	VLLM_MCP_DEBUG      - Debug log categories, e.g. "providers,registry" or "all"
//	OPENAI_API_KEY      - Enables the OpenAI-compatible provider
//	DASHSCOPE_API_KEY   - Enables the Dashscope provider
//
// A .env file in the working directory is loaded before anything else.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/StanleyChanH/vllm-mcp/pkg/config"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
	"github.com/StanleyChanH/vllm-mcp/pkg/server"
)

var (
	flagConfig    string
	flagTransport string
	flagHost      string
	flagPort      int
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "vllm-mcp",
	Short: "MCP gateway exposing multimodal model providers as tools",
	Long: `vllm-mcp bridges text-only MCP clients to multimodal models.

It serves three MCP tools (generate_multimodal_response,
list_available_providers, validate_multimodal_request) over stdio,
streamable HTTP, or SSE, and forwards generation requests to the
configured OpenAI-compatible and Dashscope backends.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vllm-mcp %s\n", server.Version)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "config file path (JSON or YAML)")
	rootCmd.Flags().StringVarP(&flagTransport, "transport", "t", "", `transport: "stdio", "http", or "sse"`)
	rootCmd.Flags().StringVar(&flagHost, "host", "", "listen host for the http and sse transports")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "listen port for the http and sse transports")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: TRACE, DEBUG, INFO, WARN, or ERROR")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// Flags beat the config file and environment.
	if cmd.Flags().Changed("transport") {
		cfg.Transport = flagTransport
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Logging goes to stderr; in stdio mode stdout carries the protocol
	// stream and must stay clean.
	debug.Init("", cfg.LogLevel)
	logger := slog.Default()

	registry, err := server.BuildRegistry(cfg, logger)
	if err != nil {
		return err
	}
	defer registry.Close()

	srv, err := server.New(cfg, registry, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
