package configs

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(env ENV) (gorm.Dialector, string, error) {
	switch env.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			env.DBUser,
			env.DBPassword,
			env.DBHost,
			env.DBPort,
			env.DBName,
		)
		return mysql.Open(dsn), fmt.Sprintf("%s@%s:%s/%s", env.DBUser, env.DBHost, env.DBPort, env.DBName), nil
	case "sqlite":
		return sqlite.Open(env.SQLitePath), env.SQLitePath, nil
	}
	return nil, "", fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	dial, target, err := dialector(env)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	maxRetries := 10
	retryDelay := 5 * time.Second

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := gorm.Open(dial, gormCfg)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info().Str("driver", env.DBDriver).Str("target", target).Msg("database connection established")
					return db, nil
				}
			}
			lastErr = pingErr
		} else {
			lastErr = err
		}

		log.Warn().Err(lastErr).Int("attempt", i+1).Int("max_attempts", maxRetries).Dur("retry_in", retryDelay).Msg("database not reachable yet")
		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries (%s): %w", maxRetries, target, lastErr)
}
