package database

import (
	"fmt"
	"log"

	"kas/config"
	"kas/models"
	"kas/store"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB gorm 连接，仅在 mysql / postgres 驱动下有值
var DB *gorm.DB

// Init 根据 database.driver 初始化交易存储
func Init(cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "mysql", "postgres":
		return initGorm(cfg)

	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		log.Printf("sqlite 数据库初始化成功: %s", cfg.Database.Path)
		return s, nil

	case "memory":
		var seed []models.Transaction
		if cfg.Database.SeedDemo {
			seed = store.DemoTransactions()
		}
		log.Printf("使用内存存储（重启后数据丢失），演示数据: %v", cfg.Database.SeedDemo)
		return store.NewMemoryStore(seed...), nil

	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
}

// Dialector 根据配置构建 gorm 方言
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	db := cfg.Database
	switch db.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			db.Username, db.Password, db.Host, db.Port, db.DBName, db.Charset)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.Username, db.Password, db.DBName, db.SSLMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("驱动 %s 不是 gorm 驱动", db.Driver)
	}
}

func initGorm(cfg *config.Config) (store.Store, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Info
	if cfg.Server.Mode == "release" {
		logLevel = logger.Warn
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(&models.Transaction{}); err != nil {
		return nil, fmt.Errorf("迁移数据库失败: %w", err)
	}

	log.Println("数据库初始化成功")
	return store.NewGormStore(DB), nil
}
