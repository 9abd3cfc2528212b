package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/findash/backend/internal/controllers"
	"github.com/findash/backend/internal/enriched"
	"github.com/findash/backend/internal/importer"
	"github.com/findash/backend/internal/keyvalue"
	"github.com/findash/backend/internal/mirror"
	"github.com/findash/backend/internal/models"
	"github.com/findash/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dsn, ok := os.LookupEnv("DB_DSN")
	if !ok {
		// Create data directory
		dataDir := filepath.Join(".", "data")
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			log.Fatal().Msg(err.Error())
		}
		dsn = filepath.Join(dataDir, "gorm.db")
	}

	if err := models.Connect(dsn); err != nil {
		log.Fatal().Msg(err.Error())
	}

	// The secondary store needs AWS credentials. Without a region the
	// process still serves: the in-memory store keeps the mirror machinery
	// running for local development.
	var store keyvalue.Store
	if _, ok := os.LookupEnv("AWS_REGION"); ok {
		dynamo, err := keyvalue.NewDynamo(ctx, os.Getenv("MIRROR_TABLE_PREFIX"))
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
		store = dynamo
	} else {
		log.Warn().Msg("AWS_REGION is not set, mirroring to an in-memory secondary store")
		store = keyvalue.NewMemory()
	}

	syncer := mirror.New(models.DB, store)
	go syncer.Run(ctx)

	co := controllers.Controller{
		DB:       models.DB,
		Store:    store,
		Syncer:   syncer,
		Enriched: enriched.NewStore(store),
		Provider: importer.NewHTTPProvider(os.Getenv("BANKING_API_URL")),
	}

	if err := router.RegisterMetrics(); err != nil {
		log.Fatal().Msg(err.Error())
	}
	defer router.UnregisterMetrics()

	r, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	router.AttachRoutes(co, r.Group("/api"))

	srv := &http.Server{Addr: ":8080", Handler: r}
	if port, ok := os.LookupEnv("PORT"); ok {
		srv.Addr = ":" + port
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Msg(err.Error())
		}
	}()

	log.Info().Str("addr", srv.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Msg(err.Error())
	}
}
