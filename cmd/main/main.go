package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"lavka-main/internal/app"
	"lavka-main/internal/basket"
	"lavka-main/internal/category"
	"lavka-main/internal/etl"
	handlersBasket "lavka-main/internal/handlers/basket"
	handlersCategory "lavka-main/internal/handlers/category"
	handlersProduct "lavka-main/internal/handlers/product"
	handlersUser "lavka-main/internal/handlers/user"
	"lavka-main/internal/kafka"
	"lavka-main/internal/middleware"
	"lavka-main/internal/product"
	"lavka-main/internal/search"
	"lavka-main/internal/session"
	"lavka-main/internal/user"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/lib/pq"
)

const (
	cfgPath = "config/config.yaml"
)

func main() {
	// init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := zapLogger.Sugar()
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			logger.Warnf("error to sync logger: %v", err)
		}
	}()

	// парсим конфиг
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("error to parsing config: %v", err)
	}

	// init db
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=disable",
		c.CfgDB.Host, c.CfgDB.Port, c.CfgDB.Login, c.CfgDB.Password, c.CfgDB.Database,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatalf("error to database start: %v", err)
	}

	db.SetMaxOpenConns(c.MaxOpenConns)
	if err := db.Ping(); err != nil {
		logger.Infof("Failed to get response to ping: %v", err)
	}

	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: "",
		DB:       0, // стандартная БД
	})

	// init elasticsearch
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: c.CfgES.Addresses,
	})
	if err != nil {
		logger.Fatalf("error to create elasticsearch client: %v", err)
	}

	elasticService := search.NewService(esClient, logger, c.CfgES.Index)
	if err := elasticService.EnsureIndex(context.Background()); err != nil {
		// Без индекса живем на SQL fallback
		logger.Warnf("failed to ensure elasticsearch index: %v", err)
	}

	// init kafka producer
	eventProducer := kafka.NewProducer(c.CfgKafka.Brokers, c.CfgKafka.Topic, logger)
	defer func() {
		if err := eventProducer.Close(); err != nil {
			logger.Warnf("error to close kafka producer: %v", err)
		}
	}()

	// init repository
	userRepository := user.NewUserDBRepository(db, logger)
	sessionRepository := session.NewSessionRepository(redisClient, logger, c.Secret, c.SessionDuration)
	categoryRepository := category.NewCategoryDBRepository(db, logger)
	productRepository := product.NewProductDBRepository(db, logger)
	basketRepository := basket.NewBasketDBRepository(db, logger)
	basketService := basket.NewService(basketRepository, productRepository, logger)

	// init ETL pipeline для полнотекстового поиска
	pipeline := etl.NewPipeline(
		etl.NewPostgresExtractor(db, logger),
		etl.NewTransformer(logger),
		etl.NewElasticLoader(elasticService, logger, db),
		logger,
		c.ETLInterval,
	)
	go pipeline.Run(context.Background())

	// init router
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.Handle("/metrics", promhttp.Handler())

	// init handlers
	userHandlers := handlersUser.NewUserHandler(logger, userRepository, sessionRepository)
	categoryHandlers := handlersCategory.NewCategoryHandler(logger, categoryRepository, userRepository)
	productHandlers := handlersProduct.NewProductHandler(logger, productRepository, userRepository, eventProducer, elasticService)
	basketHandlers := handlersBasket.NewBasketHandler(logger, basketService, productRepository, eventProducer)

	// Ручки требующие авторизации
	authRouter := r.PathPrefix("/api").Subrouter()
	authRouter.Use(middleware.Auth(sessionRepository, logger))

	authRouter.HandleFunc("/user/{id}", userHandlers.ChangeProfile).Methods("PUT")

	authRouter.HandleFunc("/category", categoryHandlers.Create).Methods("POST")
	authRouter.HandleFunc("/category/{id}", categoryHandlers.Update).Methods("PUT")
	authRouter.HandleFunc("/category/{id}", categoryHandlers.Delete).Methods("DELETE")

	authRouter.HandleFunc("/product", productHandlers.Create).Methods("POST")
	authRouter.HandleFunc("/product/{id}", productHandlers.Update).Methods("PUT")
	authRouter.HandleFunc("/product/{id}", productHandlers.Delete).Methods("DELETE")
	authRouter.HandleFunc("/product/{id}/stock", productHandlers.AdjustStock).Methods("PATCH")

	authRouter.HandleFunc("/basket", basketHandlers.Get).Methods("GET")
	authRouter.HandleFunc("/basket", basketHandlers.Clear).Methods("DELETE")
	authRouter.HandleFunc("/basket/item", basketHandlers.Add).Methods("POST")
	authRouter.HandleFunc("/basket/item/{productID}", basketHandlers.Update).Methods("PUT")
	authRouter.HandleFunc("/basket/item/{productID}", basketHandlers.Remove).Methods("DELETE")

	// Ручки НЕ требующие авторизации.
	// SoftAuth подхватывает сессию для аналитики, но не требует ее
	noAuthRouter := r.PathPrefix("/api").Subrouter()
	noAuthRouter.Use(middleware.SoftAuth(sessionRepository, logger))

	noAuthRouter.HandleFunc("/user/register", userHandlers.Register).Methods("POST")
	noAuthRouter.HandleFunc("/user/login", userHandlers.Login).Methods("POST")
	noAuthRouter.HandleFunc("/user/{id}", userHandlers.Info).Methods("GET")

	noAuthRouter.HandleFunc("/categories", categoryHandlers.List).Methods("GET")
	noAuthRouter.HandleFunc("/category/{id}", categoryHandlers.GetByID).Methods("GET")

	noAuthRouter.HandleFunc("/product/{id}", productHandlers.GetByID).Methods("GET")
	noAuthRouter.HandleFunc("/products/category/{id}", productHandlers.ListByCategory).Methods("GET")
	noAuthRouter.HandleFunc("/products/search", productHandlers.Search).Methods("GET")

	logger.Infow("starting server",
		"type", "START",
		"addr", c.ServerPort,
	)

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		panic("can't start server: " + err.Error())
	}
}
