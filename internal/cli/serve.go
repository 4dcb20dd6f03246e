package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/commitgraph/internal/server"
	"github.com/matzehuels/commitgraph/pkg/cache"
	"github.com/matzehuels/commitgraph/pkg/observability"
	"github.com/matzehuels/commitgraph/pkg/pipeline"
)

// serveCommand runs the HTTP render server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg         server.Config
		redisURL    string
		redisPrefix string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render pipeline over HTTP",
		Long: `Serve accepts commit graphs on POST /v1/render and answers with the
rendered diagram. Results are cached in Redis when --redis is set and in
the local cache directory otherwise.`,
		Example: `  commitgraph serve --addr :8080
  commitgraph serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				store cache.Cache
				err   error
			)
			if redisURL != "" {
				store, err = cache.OpenRedis(ctx, redisURL)
			} else {
				store, err = newCache(false)
			}
			if err != nil {
				return err
			}

			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisPrefix)
			runner := pipeline.NewRunner(store, keyer, c.Logger)
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))

			cfg.Logger = c.Logger
			printInfo("Listening on %s", StyleHighlight.Render(cfg.Addr))
			return server.New(runner, cfg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().IntVar(&cfg.MaxCommits, "max-commits", server.DefaultMaxCommits, "maximum commits per request")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for the shared cache")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", appName+":v1:", "key prefix in the shared cache")

	return cmd
}
