package mysql

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate 執行 SQL migration
//
// 參數:
//
//	cfg: MySQL 連線配置
//	sourceURL: migration 檔案來源，例如 "file://migrations"
//
// 資料庫已是最新版本時不視為錯誤
func Migrate(cfg Config, sourceURL string) error {
	m, err := migrate.New(sourceURL, "mysql://"+cfg.DSN())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
