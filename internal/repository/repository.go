package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cloudrent/internal/model"
	"cloudrent/pkg/log"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ctxTxKey struct{}

type Repository struct {
	db     *gorm.DB
	logger *log.Logger
	txOpts *sql.TxOptions
}

func NewRepository(conf *viper.Viper, logger *log.Logger, db *gorm.DB) *Repository {
	r := &Repository{
		db:     db,
		logger: logger,
	}
	if level, ok := isolationLevels[conf.GetString("data.db.isolation")]; ok {
		r.txOpts = &sql.TxOptions{Isolation: level}
	}
	return r
}

var isolationLevels = map[string]sql.IsolationLevel{
	"read_committed":  sql.LevelReadCommitted,
	"repeatable_read": sql.LevelRepeatableRead,
	"serializable":    sql.LevelSerializable,
}

type Transaction interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewTransaction(r *Repository) Transaction {
	return r
}

// DB returns the transaction carried by ctx, or the plain handle bound to ctx.
func (r *Repository) DB(ctx context.Context) *gorm.DB {
	v := ctx.Value(ctxTxKey{})
	if v != nil {
		if tx, ok := v.(*gorm.DB); ok {
			return tx
		}
	}
	return r.db.WithContext(ctx)
}

// Transaction runs fn inside a transaction. A ctx already carrying one gets a savepoint.
func (r *Repository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(ctxTxKey{}).(*gorm.DB); ok {
		return tx.Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, ctxTxKey{}, tx))
		})
	}
	opts := []*sql.TxOptions{}
	if r.txOpts != nil {
		opts = append(opts, r.txOpts)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, ctxTxKey{}, tx))
	}, opts...)
}

// WithoutTx strips any transaction from ctx, keeping its deadline and values.
// Writes that must survive a rollback of the surrounding work go through it.
func WithoutTx(ctx context.Context) context.Context {
	if ctx.Value(ctxTxKey{}) == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxTxKey{}, nil)
}

func NewDB(conf *viper.Viper, l *log.Logger) (*gorm.DB, func(), error) {
	var (
		db  *gorm.DB
		err error
	)

	driver := conf.GetString("data.db.user.driver")
	dsn := conf.GetString("data.db.user.dsn")
	cfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(conf.GetString("data.db.log_level"))),
	}

	// GORM doc: https://gorm.io/docs/connecting_to_the_database.html
	switch driver {
	case "mysql":
		db, err = gorm.Open(mysql.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}), cfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, nil, fmt.Errorf("unknown db driver %q", driver)
	}
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	maxOpen := conf.GetInt("data.db.max_open_conns")
	if maxOpen <= 0 {
		maxOpen = 100
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	cleanup := func() {
		if err := sqlDB.Close(); err != nil {
			l.Error("close db failed", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

// NewRedis connects to redis when data.redis.addr is set. A nil client means the
// deployment runs a single scheduler and needs no distributed lock.
func NewRedis(conf *viper.Viper, l *log.Logger) (*redis.Client, func(), error) {
	addr := conf.GetString("data.redis.addr")
	if addr == "" {
		return nil, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conf.GetString("data.redis.password"),
		DB:       conf.GetInt("data.redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, nil, fmt.Errorf("redis error: %w", err)
	}
	cleanup := func() {
		if err := rdb.Close(); err != nil {
			l.Error("close redis failed", zap.Error(err))
		}
	}
	return rdb, cleanup, nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Rental{},
		&model.Network{},
		&model.NodeNetwork{},
		&model.Flavor{},
		&model.NodeFlavor{},
		&model.Inconsistency{},
	)
}
