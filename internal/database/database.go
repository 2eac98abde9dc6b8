package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"

	"github.com/PGMA10/rrak-website/config"
	"github.com/PGMA10/rrak-website/internal/models"
)

const pingTimeout = 5 * time.Second

// NewDB opens the database selected by DATABASE_URL: postgres://, mysql://
// or, for anything else, a SQLite file.
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	driver := cfg.Driver()

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "mysql":
		dialector = mysql.Open(mysqlDSN(cfg.MySQLDSN()))
	default:
		conn, err := sql.Open("sqlite", cfg.SQLitePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: cfg.SQLitePath(), Conn: conn}
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // queries carry submitter PII
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// one writer; also keeps ":memory:" databases on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	log.Info().Str("driver", driver).Msg("database connected")
	return db, nil
}

// NewMemoryDB opens a private in-memory SQLite database and migrates it.
func NewMemoryDB() (*gorm.DB, error) {
	db, err := NewDB(&config.DatabaseConfig{URL: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates every table the site owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Lead{},
		&models.NewsletterSubscriber{},
		&models.PrintQuoteRequest{},
		&models.ConsultationBooking{},
		&models.EmailMarketingWaitlist{},
		&models.PrintMaterialsWaitlist{},
		&models.SoloMailerWaitlist{},
		&models.LandingPagesWaitlist{},
		&models.CampaignSetting{},
		&models.BlogPost{},
		&models.AdminSession{},
	)
}

// Ping reports whether the database answers within pingTimeout.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// time.Time columns need parseTime on the go-sql-driver side.
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "parseTime=true"
}
