package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/villagenews/video-service/config"
	"github.com/villagenews/video-service/infrastructure"
	"github.com/villagenews/video-service/migrations"
	"github.com/villagenews/video-service/usecase"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using system environment")
	}
	cfg := config.Load()
	if cfg.UsingDefaultSecret() {
		log.Warn("JWT_SECRET_KEY not set, using insecure development default")
	}
	if cfg.Auth.GoogleClientID == "" {
		log.Warn("GOOGLE_CLIENT_ID not set, identity-provider logins will fail verification")
	}

	db, err := connectDB(cfg.DSN(), log)
	if err != nil {
		log.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := migrate(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	brokerConn, err := connectBroker(cfg.BrokerURL(), log)
	if err != nil {
		log.Error("could not connect to broker", "error", err)
		os.Exit(1)
	}
	defer brokerConn.Close()

	publisher, err := infrastructure.NewRabbitMQPublisher(brokerConn, cfg.Broker.Queue)
	if err != nil {
		log.Error("could not set up event publisher", "error", err)
		os.Exit(1)
	}

	files := infrastructure.NewLocalFileStore(cfg.Upload.Dir)
	videoRepo := infrastructure.NewPostgresVideoRepository(db)
	userRepo := infrastructure.NewPostgresUserRepository(db)
	verifier := infrastructure.NewGoogleTokenVerifier(cfg.Auth.GoogleClientID)
	issuer := infrastructure.NewJWTIssuer([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := infrastructure.NewMetrics(registry)

	loginUC := usecase.NewLoginUseCase(userRepo, verifier, issuer, log)
	uploadUC := usecase.NewUploadVideoUseCase(videoRepo, files, publisher, log)
	deleteUC := usecase.NewDeleteVideoUseCase(videoRepo, files, publisher, log)
	listUC := usecase.NewListVideosUseCase(videoRepo)
	moderateUC := usecase.NewModerateVideoUseCase(videoRepo, publisher, log)
	reconcileUC := usecase.NewReconcileUseCase(videoRepo, files, log)

	// Sweep out artifacts left behind by interrupted uploads before
	// accepting traffic.
	sweepCtx, cancelSweep := context.WithTimeout(context.Background(), 30*time.Second)
	removed, err := reconcileUC.Execute(sweepCtx)
	cancelSweep()
	if err != nil {
		log.Warn("startup reconciliation failed", "error", err)
	} else if removed > 0 {
		log.Info("startup reconciliation removed orphaned artifacts", "count", removed)
	}

	handlers := infrastructure.NewVideoHandlers(loginUC, uploadUC, deleteUC, listUC, moderateUC, files, metrics, log)
	health := infrastructure.NewHealthHandler(db, brokerConn)
	router := infrastructure.NewRouter(handlers, health, []byte(cfg.Auth.JWTSecret), registry)
	router.MaxMultipartMemory = 32 << 20

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}

// connectDB opens the database and pings it, retrying while postgres comes
// up in container environments.
func connectDB(dsn string, log *slog.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 1; i <= 5; i++ {
		db, err = sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				log.Info("connected to postgres")
				return db, nil
			}
		}
		log.Info("database not ready, retrying in 5s", "attempt", i)
		time.Sleep(5 * time.Second)
	}
	return nil, fmt.Errorf("after 5 attempts: %w", err)
}

func connectBroker(url string, log *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			log.Info("connected to rabbitmq")
			return conn, nil
		}
		log.Info("broker not ready, retrying in 5s", "attempt", i)
		time.Sleep(5 * time.Second)
	}
	return nil, fmt.Errorf("after 5 attempts: %w", err)
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
