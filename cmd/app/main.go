package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/BloggingApp/feed-service/internal/handler"
	"github.com/BloggingApp/feed-service/internal/media"
	"github.com/BloggingApp/feed-service/internal/repository"
	"github.com/BloggingApp/feed-service/internal/repository/mongorepo"
	"github.com/BloggingApp/feed-service/internal/repository/postgres"
	"github.com/BloggingApp/feed-service/internal/server"
	"github.com/BloggingApp/feed-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := initConfig(); err != nil {
		panic("failed to initialize yaml config: " + err.Error())
	}

	logger := newLogger()
	defer logger.Sync()

	if err := loadEnv(); err != nil {
		logger.Sugar().Warnf("failed to load .env file, using process environment: %s", err.Error())
	}

	rdb := connectRedis(ctx, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	repos, closeStore := openRepository(ctx, logger, rdb)
	defer closeStore()

	storage := newMediaStorage(logger)

	services := service.New(logger, repos, storage)
	handlers := handler.New(services, logger, handler.Config{
		AccessSecret: []byte(os.Getenv("ACCESS_SECRET")),
		ClientOrigin: viper.GetString("client.origin"),
	})

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
	}
	go func(srv *server.Server, cfg config.ServerConfig) {
		if err := srv.Run(cfg); err != nil {
			logger.Sugar().Panicf("failed to run http server: %s", err.Error())
		}
	}(srv, serverConfig)

	logger.Sugar().Infof("Server started on port %s (storage: %s, media: %s)", serverConfig.Port, viper.GetString("storage.driver"), viper.GetString("media.provider"))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("storage.driver", config.StorageDriverPostgres)
	viper.SetDefault("media.provider", config.MediaProviderCDN)
	viper.SetDefault("media.folder", "posts")
	viper.SetDefault("cache.ttl", time.Hour)
	viper.SetDefault("mongo.database", "feed")

	return viper.ReadInConfig()
}

func newLogger() *zap.Logger {
	build := zap.NewProduction
	if viper.GetBool("app.debug") {
		build = zap.NewDevelopment
	}

	logger, err := build()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	return logger
}

// connectRedis returns nil when REDIS_ADDR is unset, which disables caching.
func connectRedis(ctx context.Context, logger *zap.Logger) *redis.Client {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisConfig := config.RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}
	if !redisConfig.Enabled() {
		logger.Info("REDIS_ADDR is not set, caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	return rdb
}

func openRepository(ctx context.Context, logger *zap.Logger, rdb *redis.Client) (*repository.Repository, func()) {
	switch driver := viper.GetString("storage.driver"); driver {
	case config.StorageDriverPostgres:
		dbConfig := config.DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}
		db, err := postgres.DB(ctx, dbConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
		}
		if err := db.Ping(ctx); err != nil {
			logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to migrate postgres: %s", err.Error())
		}
		logger.Info("Successfully connected to PostgreSQL")

		return repository.NewPostgres(db, rdb, logger), db.Close

	case config.StorageDriverMongo:
		mongoConfig := config.MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: viper.GetString("mongo.database"),
		}
		client, err := mongorepo.Connect(ctx, mongoConfig)
		if err != nil {
			logger.Sugar().Panicf("failed to connect to mongodb: %s", err.Error())
		}
		db := client.Database(mongoConfig.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			logger.Sugar().Panicf("failed to create mongodb indexes: %s", err.Error())
		}
		logger.Info("Successfully connected to MongoDB")

		return repository.NewMongo(db, rdb, logger), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Sugar().Errorf("failed to disconnect from mongodb: %s", err.Error())
			}
		}

	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemory(rdb), func() {}

	default:
		logger.Sugar().Panicf("unknown storage driver: %s", driver)
		return nil, nil
	}
}

func newMediaStorage(logger *zap.Logger) media.Storage {
	mediaConfig := config.MediaConfig{
		Provider:      viper.GetString("media.provider"),
		Folder:        viper.GetString("media.folder"),
		CDNOrigin:     viper.GetString("cdn.origin"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
	}

	switch mediaConfig.Provider {
	case config.MediaProviderCloudinary:
		storage, err := media.NewCloudinaryStorage(mediaConfig.CloudinaryURL, mediaConfig.Folder)
		if err != nil {
			logger.Sugar().Panicf("failed to configure cloudinary: %s", err.Error())
		}
		return storage
	case config.MediaProviderCDN:
		return media.NewCDNStorage(mediaConfig.CDNOrigin, mediaConfig.Folder, &http.Client{Timeout: time.Minute})
	default:
		logger.Sugar().Panicf("unknown media provider: %s", mediaConfig.Provider)
		return nil
	}
}
