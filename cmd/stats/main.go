package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"lavka-main/internal/kafka"
	"lavka-main/internal/middleware"
	"lavka-main/internal/session"
	"lavka-main/internal/stats"
	"lavka-main/internal/user"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const (
	cfgPath = "config/stats-config.yaml"
)

func main() {
	// Init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger := zapLogger.Sugar()
	defer func() { _ = zapLogger.Sync() }()

	// Parse config
	c, err := stats.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("Error parsing config: %v", err)
	}

	// Init DB
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.CfgDB.Host, c.CfgDB.Port, c.CfgDB.Login, c.CfgDB.Password, c.CfgDB.Database,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf("Error connecting to DB: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(c.MaxOpenConns)
	if err := db.Ping(); err != nil {
		logger.Errorf("DB ping failed: %v", err)
	}

	// Init redis для проверки сессий
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: "",
		DB:       0,
	})

	// Init Kafka Consumer
	consumer := kafka.NewConsumer(c.CfgKafka.Brokers, c.CfgKafka.Topic, c.CfgKafka.GroupID, logger)
	defer consumer.Close()

	// Init stats repository и service через интерфейсы
	repo := stats.NewRepository(db, logger)
	service := stats.NewService(repo, logger)

	// Start event processor
	go func() {
		consumer.Consume(context.Background(), func(ctx context.Context, event kafka.Event) error {
			return service.ProcessEvent(ctx, event)
		})
	}()

	// Init HTTP server
	userRepository := user.NewUserDBRepository(db, logger)
	sessionRepository := session.NewSessionRepository(redisClient, logger, c.Secret, c.SessionDuration)
	handler := stats.NewHandler(service, userRepository, logger)

	r := mux.NewRouter()
	r.Use(middleware.Auth(sessionRepository, logger))
	r.HandleFunc("/stats/user/{user_id}/top", handler.GetUserTop).Methods("GET")
	r.HandleFunc("/stats/categories", handler.GetCategoryTotals).Methods("GET")

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Infof("Starting stats service on %s", c.ServerPort)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
