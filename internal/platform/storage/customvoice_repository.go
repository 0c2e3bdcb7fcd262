package storage

import (
	"context"

	"gorm.io/gorm"

	"voice-arena-go/internal/domain/catalog"
	"voice-arena-go/internal/platform/errors"
)

// CustomVoiceRepository 克隆音色仓库
type CustomVoiceRepository struct {
	db *gorm.DB
}

// NewCustomVoiceRepository 创建克隆音色仓库实例
func NewCustomVoiceRepository(db *gorm.DB) *CustomVoiceRepository {
	return &CustomVoiceRepository{db: db}
}

// Save 保存克隆音色（同ID覆盖）
func (r *CustomVoiceRepository) Save(ctx context.Context, voice *CustomVoice) error {
	if err := r.db.WithContext(ctx).Save(voice).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "custom_voice.save", "failed to save custom voice", err)
	}
	return nil
}

// Delete 删除克隆音色
func (r *CustomVoiceRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&CustomVoice{}).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "custom_voice.delete", "failed to delete custom voice", err)
	}
	return nil
}

// All 返回全部克隆音色，按创建时间升序
func (r *CustomVoiceRepository) All(ctx context.Context) ([]CustomVoice, error) {
	var models []CustomVoice
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "custom_voice.all", "failed to list custom voices", err)
	}
	return models, nil
}

// ListCustomVoices 实现catalog.CustomVoiceSource
func (r *CustomVoiceRepository) ListCustomVoices(ctx context.Context) ([]catalog.CustomVoice, error) {
	models, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	voices := make([]catalog.CustomVoice, len(models))
	for i, m := range models {
		voices[i] = catalog.CustomVoice{ID: m.ID, Title: m.Title}
	}
	return voices, nil
}
