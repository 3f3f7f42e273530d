// Package mcpserver exposes the service layer as MCP tools over stdio or
// streamable HTTP.
package mcpserver

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/ncaam/cbb-mcp/internal/predictor"
	"github.com/ncaam/cbb-mcp/internal/services"
	"github.com/ncaam/cbb-mcp/internal/sources"
)

const (
	serverName    = "cbb-mcp"
	serverVersion = "1.0.0"

	// defaultMaxConcurrentCalls caps in-flight tool calls across all
	// sessions when no explicit bound is configured.
	defaultMaxConcurrentCalls = 50

	conferencesURI = "cbb://conferences"
)

// Server wires MCP tools to the service layer.
type Server struct {
	mcp  *mcp.Server
	svc  *services.Service
	pred *predictor.Client
	sem  chan struct{}
}

// New builds a fully registered MCP server. pred may be nil when no
// predictor service is configured. maxConcurrent caps in-flight tool calls;
// zero or negative selects the default. Calls beyond the cap queue until a
// slot frees or the request context expires.
func New(svc *services.Service, pred *predictor.Client, maxConcurrent int) *Server {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentCalls
	}
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
			Instructions: "NCAA Men's D1 College Basketball data — live scores, teams, rankings, stats, and more",
		}),
		svc:  svc,
		pred: pred,
		sem:  make(chan struct{}, maxConcurrent),
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Run serves MCP over stdio until the context is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	log.Info().Str("transport", "stdio").Msg("Starting MCP server")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// ServeHTTP serves MCP over the streamable HTTP transport on addr until the
// context is cancelled. authToken enables Bearer authentication when
// non-empty.
func (s *Server) ServeHTTP(ctx context.Context, addr, authToken string) error {
	if authToken == "" && !localhostBind(addr) {
		log.Warn().Str("addr", addr).Msg("HTTP transport bound beyond localhost without an auth token")
	}

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	srv := &http.Server{
		Addr:              addr,
		Handler:           bearerAuth(authToken, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("transport", "http").Str("addr", addr).Msg("Starting MCP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	}
}

// bearerAuth wraps next with constant-time Bearer token checking. An empty
// token disables authentication.
func bearerAuth(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func localhostBind(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func (s *Server) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) release() {
	<-s.sem
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        "conferences",
		Title:       "Division I Conferences",
		Description: "Known NCAA Division I men's basketball conferences",
		MIMEType:    "text/plain",
		URI:         conferencesURI,
	}, conferencesHandler)
}

func conferencesHandler(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	shorts := make([]string, 0, len(sources.ESPNConferences))
	for short := range sources.ESPNConferences {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	lines := []string{"**NCAA D1 Conferences**\n"}
	for _, short := range shorts {
		lines = append(lines, fmt.Sprintf("  %-16s %s", short, sources.ESPNConferences[short].Name))
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: conferencesURI, MIMEType: "text/plain", Text: strings.Join(lines, "\n")},
		},
	}, nil
}
