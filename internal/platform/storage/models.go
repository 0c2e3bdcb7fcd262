package storage

import (
	"gorm.io/datatypes"
)

// HistoryRecord 历史记录存储模型。Voices列存放按记录类型序列化的载荷。
// CreatedAt为毫秒时间戳，由领域层分配，禁用gorm自动填充。
type HistoryRecord struct {
	ID        string         `gorm:"type:varchar(36);primaryKey"`
	Type      string         `gorm:"type:varchar(64);index;not null"`
	Winner    *int           `gorm:""`
	CreatedAt int64          `gorm:"autoCreateTime:false;index;not null"`
	Voices    datatypes.JSON `gorm:"not null"`
}

// CustomVoice 克隆音色存储模型（外部音色克隆流程写入）
type CustomVoice struct {
	ID         string `gorm:"type:varchar(64);primaryKey" json:"id"`
	Title      string `gorm:"type:varchar(255);not null" json:"title"`
	Type       string `gorm:"type:varchar(64)" json:"type"`
	Visibility string `gorm:"type:varchar(32)" json:"visibility"`
	CreatedAt  int64  `gorm:"autoCreateTime:false;index" json:"createdAt"`
}
