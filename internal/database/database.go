package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/daralachab/reservation-api/internal/config"
	"github.com/daralachab/reservation-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the backend named by the DATABASE_URL scheme.
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	driver, dsn, err := Resolve(cfg.DatabaseURL, cfg.DBName)
	if err != nil {
		return nil, err
	}
	log.Info("connecting to database", zap.String("driver", driver), zap.String("database", cfg.DBName))

	switch driver {
	case "mongo":
		return connectMongo(ctx, dsn, cfg.DBName)
	case "postgres":
		return connectSQL(postgres.Open(dsn))
	default:
		return connectSQL(sqlite.Open(dsn))
	}
}

// Resolve maps a connection URL to a driver name and the DSN that driver
// expects. DB_NAME fills in whatever the URL leaves out.
func Resolve(rawURL, dbName string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(rawURL, "mongodb://"), strings.HasPrefix(rawURL, "mongodb+srv://"):
		return "mongo", rawURL, nil

	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid postgres url: %w", err)
		}
		if strings.Trim(u.Path, "/") == "" {
			u.Path = "/" + dbName
		}
		return "postgres", u.String(), nil

	case strings.HasPrefix(rawURL, "sqlite://"):
		path := strings.TrimPrefix(rawURL, "sqlite://")
		if path == "" {
			path = dbName + ".db"
		}
		return "sqlite", path, nil
	}
	return "", "", fmt.Errorf("unsupported database url scheme in %q", redact(rawURL))
}

func connectMongo(ctx context.Context, uri, dbName string) (store.Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := store.NewMongoStore(client, dbName)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func connectSQL(dialector gorm.Dialector) (store.Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := store.NewSQLStore(db)
	if err := s.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	return s, nil
}

func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
