package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tintpro-backend/config"
	"tintpro-backend/controllers"
	"tintpro-backend/routes"
	"tintpro-backend/services"
	"tintpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.LoadConfig()
}

func main() {
	cfg := config.AppConfig
	utils.InitializeLogger(config.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.CatalogSource == "postgres" || cfg.StateStore == "postgres" {
		if err := config.ConnectDB(); err != nil {
			logger.Fatal("Failed to connect database", zap.Error(err))
		}
	}

	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
	store := buildStore(cfg, retention, logger)
	catalog := services.NewCatalogClient(buildPriceSource(cfg), logger)

	sessions := services.NewSessionManager(services.CartDeps{
		Catalog:        catalog,
		Store:          store,
		Namespace:      cfg.StateNamespace,
		BookingBaseURL: cfg.BookingBaseURL,
		Notifier:       buildNotifier(cfg, logger),
		Logger:         logger,
	})

	janitor := services.NewJanitor(sessions, store,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute, retention, logger)
	if err := janitor.Start(cfg.JanitorSchedule); err != nil {
		logger.Fatal("Invalid janitor schedule", zap.Error(err))
	}
	defer janitor.Stop()

	r := routes.SetupRouter(routes.RouterDeps{
		Booking:           controllers.NewBookingController(sessions),
		Services:          controllers.NewServiceController(catalog),
		Sessions:          utils.NewSessionTokens(cfg.SessionSecret, retention),
		Logger:            logger,
		AllowedOrigins:    cfg.AllowedOrigins(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	})
	printRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func buildPriceSource(cfg config.Config) services.PriceSource {
	if cfg.CatalogSource == "postgres" {
		return services.NewPostgresPriceSource(config.DB)
	}
	return services.NewRESTPriceSource(cfg.SupabaseURL, cfg.SupabaseKey,
		time.Duration(cfg.CatalogTimeout)*time.Second)
}

// buildStore picks the persisted state backend. A backend that cannot be
// reached degrades to memory.
func buildStore(cfg config.Config, retention time.Duration, logger *zap.Logger) services.Store {
	switch cfg.StateStore {
	case "postgres":
		store := services.NewGormStore(config.DB)
		if err := store.Migrate(); err != nil {
			logger.Warn("booking_states migration failed, using memory store", zap.Error(err))
			return services.NewMemoryStore()
		}
		return store
	case "redis":
		client, err := config.ConnectRedis()
		if err != nil {
			logger.Warn("Redis unavailable, using memory store", zap.Error(err))
			return services.NewMemoryStore()
		}
		return services.NewRedisStore(client, retention)
	}
	return services.NewMemoryStore()
}

func buildNotifier(cfg config.Config, logger *zap.Logger) services.Notifier {
	if !cfg.TwilioEnabled() {
		return services.NopNotifier{}
	}
	if !utils.ValidatePhone(cfg.ShopAlertPhone) {
		logger.Warn("SHOP_ALERT_PHONE is not a valid phone number, handoff alerts disabled")
		return services.NopNotifier{}
	}
	return services.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken,
		cfg.TwilioPhoneNumber, utils.NormalizePhone(cfg.ShopAlertPhone), logger)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
