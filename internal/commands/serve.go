package commands

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/ishanKurnal/WanderLust/internal/api"
	"github.com/ishanKurnal/WanderLust/internal/cache"
	"github.com/ishanKurnal/WanderLust/internal/config"
	"github.com/ishanKurnal/WanderLust/internal/db"
	"github.com/ishanKurnal/WanderLust/internal/geocoding"
	"github.com/ishanKurnal/WanderLust/internal/services"
	"github.com/ishanKurnal/WanderLust/internal/sessions"
	"github.com/ishanKurnal/WanderLust/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Long:  `Connects to MongoDB, Redis and S3, then serves the site until SIGINT or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			memorySessions, _ := cmd.Flags().GetBool("memory-sessions")
			port, _ := cmd.Flags().GetString("port")

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if port != "" {
				cfg.ApiPort = port
			}
			return serve(cmd.Context(), cfg, memorySessions)
		},
	}

	cmd.Flags().Bool("memory-sessions", false, "Keep sessions in process memory and skip Redis (development only)")
	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides API_PORT)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, memorySessions bool) error {
	mongoClient, mongoDb, err := db.ConnectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	if err := db.EnsureIndexes(mongoDb); err != nil {
		return err
	}

	var redisClient *redis.Client
	var sessionStore sessions.Store
	if memorySessions {
		log.Println("Using in-memory sessions; geocode results will not be cached.")
		sessionStore = sessions.NewMemoryStore()
	} else {
		redisClient, err = cache.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := cache.DisconnectRedis(redisClient); err != nil {
				log.Printf("Error disconnecting from Redis: %v", err)
			}
		}()
		sessionStore = sessions.NewRedisStore(redisClient)
	}

	imageStorage, err := storage.NewS3Storage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 storage: %w", err)
	}

	geocoder, err := geocoding.NewGoogleGeocoder(cfg.GeocoderAPIKey, cfg.GeocoderRegion)
	if err != nil {
		return err
	}
	locationService := services.NewLocationService(geocoder, redisClient, cfg.GeocodeCacheTTL)

	deps := api.Dependencies{
		Users:        services.NewUserService(mongoDb),
		Listings:     services.NewListingService(mongoDb, cfg, locationService, imageStorage),
		Reviews:      services.NewReviewService(mongoDb),
		Images:       imageStorage,
		SessionStore: sessionStore,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           api.NewHandler(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("%s listening on :%s\n", cfg.AppName, cfg.ApiPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		fmt.Printf("\nReceived signal: %s. Shutting down gracefully...\n", sig)
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("ListenAndServe error: %w", err)
		}
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	for err := range serverErr {
		log.Printf("Server error during shutdown: %v", err)
	}

	fmt.Println("Server gracefully stopped")
	return nil
}
