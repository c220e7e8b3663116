// Package server assembles the vllm-mcp gateway: the MCP tool surface
// over a provider registry, served on the stdio, streamable HTTP, or
// SSE transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"

	"github.com/StanleyChanH/vllm-mcp/pkg/config"
	"github.com/StanleyChanH/vllm-mcp/pkg/provider"
)

const serverName = "vllm-mcp"

// Version is reported in the MCP handshake, the health endpoint, and
// the version command. Overridden at build time via -ldflags.
var Version = "0.1.0"

// shutdownTimeout bounds graceful shutdown of the HTTP transports.
const shutdownTimeout = 10 * time.Second

// Server hosts the MCP tool surface over one of the supported transports.
type Server struct {
	cfg      *config.Config
	registry *provider.Registry
	logger   *slog.Logger
	mcp      *mcp.Server
}

// New assembles the server. The registry must hold at least one
// provider; a gateway that cannot serve any model must not start.
func New(cfg *config.Config, registry *provider.Registry, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config must not be nil")
	}
	if registry == nil || registry.Len() == 0 {
		return nil, errors.New("server: no providers configured (set OPENAI_API_KEY or DASHSCOPE_API_KEY, or add providers to the config file)")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, registry: registry, logger: logger}
	s.mcp = s.buildMCPServer()
	return s, nil
}

// buildMCPServer registers the tool surface.
func (s *Server) buildMCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: Version}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        toolGenerate,
		Description: "Generate a response from a multimodal vision model given a text prompt and optional images and files",
	}, s.handleGenerate)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        toolListProviders,
		Description: "List the configured providers and the models they support",
	}, s.handleListProviders)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        toolValidate,
		Description: "Check whether a model and attachment counts would be accepted, without calling the backend",
	}, s.handleValidate)

	return srv
}

// Run starts the configured transport and blocks until the context is
// cancelled or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Transport {
	case "stdio":
		return s.runStdio(ctx)
	case "http", "sse":
		return s.runHTTP(ctx)
	default:
		return fmt.Errorf("server: unsupported transport %q", s.cfg.Transport)
	}
}

func (s *Server) runStdio(ctx context.Context) error {
	s.logger.Info("starting MCP server",
		"transport", "stdio", "version", Version, "providers", s.registry.Len())
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP handler used by the http and sse transports,
// with health, metrics, and the middleware stack mounted. Exposed so
// tests can serve the gateway from httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	switch s.cfg.Transport {
	case "sse":
		// The SSE handler serves the stream endpoint and the per-session
		// message endpoints it hands out, so it owns the root.
		mux.Handle("/", mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil))
	default:
		mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil))
	}

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	return withMiddleware(mux, s.logger)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "{\"status\":\"ok\",\"server\":%q,\"version\":%q,\"providers\":%d}\n",
		serverName, Version, s.registry.Len())
}

func (s *Server) runHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Handler: s.Handler(),
		// No WriteTimeout: SSE sessions stay open indefinitely.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Duration(s.cfg.RequestTimeout) * time.Second,
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.cfg.Addr(), err)
	}
	ln = netutil.LimitListener(ln, s.cfg.MaxConnections)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server",
			"transport", s.cfg.Transport, "addr", s.cfg.Addr(),
			"version", Version, "providers", s.registry.Len(),
			"max_connections", s.cfg.MaxConnections)
		if err := httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", "error", err.Error())
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
