package mysql

import (
	"fmt"
	"time"
)

// Config MySQL 連線與連線池設定
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	// 連線池設定，零值交給 ApplyDefaults 補齊
	// 參考: https://github.com/go-sql-driver/mysql#important-settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// GORM log 等級: "silent", "error", "warn", "info"
	LogLevel string
}

// ApplyDefaults 補齊未設定的欄位
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 100
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 30 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "error"
	}
}

// DSN 產生連線字串
// 格式: user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}
