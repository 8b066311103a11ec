package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-readiness-service/internal/app"
	"ai-readiness-service/internal/catalog"
	"ai-readiness-service/internal/config"
	"ai-readiness-service/internal/domain"
	"ai-readiness-service/internal/export"
	"ai-readiness-service/internal/infra/memory"
	pgloader "ai-readiness-service/internal/infra/postgres"
	redisinfra "ai-readiness-service/internal/infra/redis"
	"ai-readiness-service/internal/submit"
	transport "ai-readiness-service/internal/transport/http"
	"ai-readiness-service/internal/validate"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the form service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Submission.URL == "" {
		return fmt.Errorf("submission.url is not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	stateTTL := config.Duration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(builtinCatalogs())
	if pool != nil {
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisinfra.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var archive app.StateArchive
	if redisClient != nil {
		archive = redisinfra.NewStateArchive(redisClient, stateTTL)
	} else {
		archive = memory.NewStateArchive()
	}

	defaultRegion := cfg.Phone.DefaultRegion
	if defaultRegion == "" {
		defaultRegion = "KE"
	}
	title := cfg.Export.Title
	if title == "" {
		title = "AI Readiness Assessment Responses"
	}
	filename := cfg.Export.Filename
	if filename == "" {
		filename = "AI_Readiness_Assessment.pdf"
	}

	submitTimeout := config.Duration(cfg.Submission.Timeout, 30*time.Second)
	service := app.NewFormService(
		memory.NewSessionStore(),
		catalogRepo,
		archive,
		validate.NewEngine(defaultRegion),
		submit.NewClient(cfg.Submission.URL, submitTimeout),
		export.NewRenderer(title, filename),
	)

	wsHandler := transport.NewWSHandler(service)
	restHandler := transport.NewRESTHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	restHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting form service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// builtinCatalogs serves the bundled questionnaire when no Postgres-backed
// catalog store is configured.
func builtinCatalogs() map[string]domain.Catalog {
	return map[string]domain.Catalog{
		catalog.BuiltinID: catalog.Builtin(),
	}
}
