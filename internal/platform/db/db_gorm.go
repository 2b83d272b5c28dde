package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"logo_backend/internal/feature/logodetection/adapters/history"
)

const (
	// DriverSQLite はローカルファイルのSQLiteを使用します。
	DriverSQLite = "sqlite"
	// DriverPostgres はPostgreSQL（Cloud SQLを含む）を使用します。
	DriverPostgres = "postgres"

	defaultSQLitePath = "logo_history.db"
	retryInterval     = 3 * time.Second
)

// ErrUnsupportedDriver はDB_DRIVERに未対応の値が指定された場合のエラーです。
var ErrUnsupportedDriver = errors.New("unsupported DB_DRIVER")

// Config はデータベース接続設定です。
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	SSLMode      string
	InstanceName string
	// SQLitePath はDriverがsqliteの場合のファイルパスです。
	SQLitePath string
}

// Enabled は履歴ストアが有効かを返します。
func (c Config) Enabled() bool {
	return c.Driver != ""
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	sqlitePath := os.Getenv("DB_PATH")
	if sqlitePath == "" {
		sqlitePath = defaultSQLitePath
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	return Config{
		Driver:       os.Getenv("DB_DRIVER"),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		SSLMode:      sslMode,
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:   sqlitePath,
	}
}

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
// InstanceName が設定されている場合はCloud SQLのUnixソケットを優先します。
func BuildDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
	if cfg.InstanceName == "" && cfg.Port != "" {
		dsn += " port=" + cfg.Port
	}
	return dsn
}

// ConnectWithRetry は timeout に達するまで一定間隔で接続を再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(dsn string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定されたドライバーでデータベースに接続し、履歴テーブルをマイグレーションします。
// Driver が空の場合は nil を返し、履歴は無効になります。
func OpenDB(cfg Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "":
		return nil, nil
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
	case DriverPostgres:
		db, err = ConnectWithRetry(BuildDSN(cfg), 60*time.Second, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&history.AnalysisModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}
