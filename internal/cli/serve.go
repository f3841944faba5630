package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crossboard/internal/server"
	"github.com/matzehuels/crossboard/pkg/cache"
	"github.com/matzehuels/crossboard/pkg/pipeline"
)

// serveOptions holds the flags of the serve command.
type serveOptions struct {
	addr    string
	noCache bool
	maxBody int64
	redis   cache.RedisConfig
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

Routes:
  POST /v1/render   render a posted TOML or JSON document
  POST /v1/layout   return the region snapshot of a posted document
  GET  /healthz     liveness check

With --redis the linkage and render caches live in Redis, so several
instances can share them. Otherwise the local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBody, "largest accepted document in bytes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.redis.Addr, "redis", "", "redis address (host:port) for a shared cache")
	cmd.Flags().StringVar(&opts.redis.Password, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&opts.redis.DB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&opts.redis.Prefix, "redis-prefix", appName+":", "prefix for redis keys")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOptions) error {
	ctx := cmd.Context()

	var store cache.Cache
	switch {
	case opts.redis.Addr != "" && !opts.noCache:
		rc, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return fmt.Errorf("connect cache: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", opts.redis.Addr, "db", opts.redis.DB)
		store = rc
	default:
		fc, err := newCache(opts.noCache)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		store = fc
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := server.New(runner, c.Logger, server.WithMaxBody(opts.maxBody))
	return srv.ListenAndServe(ctx, opts.addr)
}
