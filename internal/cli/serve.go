package cli

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ppiankov/aletheia/internal/api"
	"github.com/ppiankov/aletheia/internal/cache"
	"github.com/ppiankov/aletheia/internal/logger"
	"github.com/ppiankov/aletheia/internal/metrics"
	"github.com/ppiankov/aletheia/internal/verify"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP service",
	Long: `Serve starts the HTTP API:

  POST /api/v1/verify   verify a claim
  GET  /healthz         liveness and component state
  GET  /metrics         Prometheus metrics

Example:
  aletheia serve
  aletheia serve --port 9090
  ALETHEIA_LLM_PROVIDER=openai OPENAI_API_KEY=sk-... aletheia serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	log, err := logger.New(cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	rec := metrics.NewPromRecorder(prometheus.DefaultRegisterer)

	verifier, err := verify.FromConfig(cfg, rec, log)
	if err != nil {
		return fmt.Errorf("build verifier: %w", err)
	}

	// The memory backend has no probe; redis and layered do.
	var pinger cache.Pinger
	if p, ok := verifier.Cache().Store().(cache.Pinger); ok {
		pinger = p
	}

	handler := api.NewHandler(verifier, pinger, verifier.Provider(), log)

	srv := api.NewServer(cfg, log, func(r *gin.Engine) {
		handler.Register(r)
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	})

	return srv.RunWithGracefulShutdown(context.Background())
}
