package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabulatree/fabula/internal/server"
	"github.com/fabulatree/fabula/pkg/session"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

// serveCommand creates the serve command for exposing a story over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		ttl       time.Duration
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve [story.toml]",
		Short: "Serve a story over HTTP",
		Long: `Serve a story over HTTP.

Readers play through a small JSON API: POST /api/sessions starts a session
at the root, GET /api/sessions/{id} shows the current node and choices, and
POST /api/sessions/{id}/choice follows a numbered choice. Sessions live in
memory by default; pass --redis to share them across instances.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStory(args[0])
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), st, addr, ttl, redisAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&ttl, "session-ttl", session.DefaultTTL, "idle session lifetime")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (host:port) for shared session storage")

	return cmd
}

// runServe blocks until the context is canceled or the listener fails.
func (c *CLI) runServe(ctx context.Context, st *storyfile.Story, addr string, ttl time.Duration, redisAddr string) error {
	store, closeStore, err := c.newSessionStore(ctx, redisAddr)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(st, store, ttl, c.Logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Serving %q on %s", st.Title, addr)
	c.Logger.Info("listening", "addr", addr, "ttl", ttl)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			c.Logger.Error("shutdown", "err", err)
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newSessionStore picks the session backend: in-memory by default,
// Redis when an address is given.
func (c *CLI) newSessionStore(ctx context.Context, redisAddr string) (session.Store, func(), error) {
	if redisAddr == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	store, err := session.NewRedisStore(ctx, session.RedisConfig{Addr: redisAddr})
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("using redis session store", "addr", redisAddr)
	return store, func() {
		if err := store.Close(); err != nil {
			c.Logger.Error("close redis", "err", err)
		}
	}, nil
}
