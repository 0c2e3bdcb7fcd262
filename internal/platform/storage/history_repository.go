package storage

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/platform/errors"
)

// historyRepository 历史记录仓库实现
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository 创建历史记录仓库实例
func NewHistoryRepository(db *gorm.DB) history.Repository {
	return &historyRepository{db: db}
}

// Insert 保存新记录
func (r *historyRepository) Insert(ctx context.Context, record *history.Record) error {
	model, err := r.toModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.insert", "failed to insert history record", err)
	}
	return nil
}

// Find 根据ID查找记录，不存在时返回(nil, nil)
func (r *historyRepository) Find(ctx context.Context, id string) (*history.Record, error) {
	var model HistoryRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // 记录不存在
		}
		return nil, errors.Wrap(errors.KindStorage, "history.find", "failed to find history record", err)
	}
	return r.fromModel(&model)
}

// UpdateWinner 更新pk记录的胜者
func (r *historyRepository) UpdateWinner(ctx context.Context, id string, winner int) error {
	if err := r.db.WithContext(ctx).Model(&HistoryRecord{}).
		Where("id = ?", id).
		Update("winner", winner).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.update_winner", "failed to update winner", err)
	}
	return nil
}

// Replace 整体覆盖记录（子项删除后写回）
func (r *historyRepository) Replace(ctx context.Context, record *history.Record) error {
	model, err := r.toModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.replace", "failed to replace history record", err)
	}
	return nil
}

// Delete 删除整条记录
func (r *historyRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&HistoryRecord{}).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "history.delete", "failed to delete history record", err)
	}
	return nil
}

// List 按创建时间倒序分页查询
func (r *historyRepository) List(ctx context.Context, offset, limit int, filter history.Filter) ([]*history.Record, error) {
	var models []HistoryRecord
	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit)
	if err := query.Find(&models).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "history.list", "failed to list history records", err)
	}

	records := make([]*history.Record, 0, len(models))
	for i := range models {
		record, err := r.fromModel(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Count 统计满足过滤条件的记录数
func (r *historyRepository) Count(ctx context.Context, filter history.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&HistoryRecord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(errors.KindStorage, "history.count", "failed to count history records", err)
	}
	return count, nil
}

func (r *historyRepository) applyFilter(query *gorm.DB, filter history.Filter) *gorm.DB {
	switch filter {
	case history.FilterPK:
		return query.Where("type = ?", string(history.TypePK))
	case history.FilterGeneration:
		return query.Where("type <> ?", string(history.TypePK))
	default:
		return query
	}
}

// toModel 将领域对象转换为存储模型
func (r *historyRepository) toModel(record *history.Record) (*HistoryRecord, error) {
	payload, err := history.MarshalPayload(record.Payload)
	if err != nil {
		return nil, err
	}
	return &HistoryRecord{
		ID:        record.ID,
		Type:      string(record.Type),
		Winner:    record.Winner,
		CreatedAt: record.CreatedAt,
		Voices:    datatypes.JSON(payload),
	}, nil
}

// fromModel 将存储模型还原为领域对象
func (r *historyRepository) fromModel(model *HistoryRecord) (*history.Record, error) {
	payload, err := history.UnmarshalPayload(history.RecordType(model.Type), model.Voices)
	if err != nil {
		return nil, err
	}
	return &history.Record{
		ID:        model.ID,
		Type:      history.RecordType(model.Type),
		Winner:    model.Winner,
		CreatedAt: model.CreatedAt,
		Payload:   payload,
	}, nil
}
