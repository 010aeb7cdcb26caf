package config

import (
	"Cuisinade/internal/utils"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(dbType string) (gorm.Dialector, error) {
	host := utils.GetConfig("DB_HOST")
	user := utils.GetConfig("DB_USER")
	password := utils.GetConfig("DB_PASSWORD")
	name := utils.GetConfig("DB_NAME")
	port := utils.GetConfig("DB_PORT")

	switch dbType {
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			host, user, password, name, port,
		)
		return postgres.Open(dsn), nil
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			user, password, host, port, name,
		)
		return mysql.Open(dsn), nil
	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			user, password, host, port, name,
		)
		return sqlserver.Open(dsn), nil
	case "sqlite":
		// DB_NAME is the database file path
		return sqlite.Open(name), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func ConnectDB() (*gorm.DB, error) {
	dbType := utils.GetConfig("DB_TYPE")
	d, err := dialector(dbType)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	maxConns := utils.GetConfigInt("DB_MAX_CONNS", 10)
	if dbType == "sqlite" {
		maxConns = 1
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(max(maxConns/2, 1))

	log.Infow("connected to database", "type", dbType, "name", utils.GetConfig("DB_NAME"))
	return db, nil
}
