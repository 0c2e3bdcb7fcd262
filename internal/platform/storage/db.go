package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voice-arena-go/internal/platform/errors"
)

// Open 打开sqlite数据库并迁移存储模型
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.KindStorage, "db.open", "打开数据库失败", err)
	}

	if err := db.AutoMigrate(&HistoryRecord{}, &CustomVoice{}); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "db.migrate", "迁移数据表失败", err)
	}

	return db, nil
}
