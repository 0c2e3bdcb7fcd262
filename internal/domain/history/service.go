package history

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/platform/errors"
	"voice-arena-go/internal/platform/logging"
)

// Filter 列表过滤条件
type Filter int

const (
	FilterAll Filter = iota
	FilterPK
	FilterGeneration
)

// Repository 历史记录持久化层。Find对不存在的id返回(nil, nil)。
type Repository interface {
	Insert(ctx context.Context, record *Record) error
	Find(ctx context.Context, id string) (*Record, error)
	UpdateWinner(ctx context.Context, id string, winner int) error
	Replace(ctx context.Context, record *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int, filter Filter) ([]*Record, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Page 一页历史记录
type Page struct {
	Items       []*Record `json:"items"`
	Total       int64     `json:"total"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// UpdateFields update操作支持的可变更字段
type UpdateFields struct {
	Winner *int `json:"winner,omitempty"`
}

// Service 历史记录服务。变更操作串行化执行（单写者假设），
// 每次成功变更都会发布history.changed事件。
type Service struct {
	repo   Repository
	logger *logging.Logger
	mu     sync.Mutex
}

// NewService 创建历史记录服务
func NewService(repo Repository, logger *logging.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Add 持久化一条新记录：分配id与创建时间戳后写入。
// 存储层失败会向上传播，由调用方放弃本次生成流程。
func (s *Service) Add(ctx context.Context, recordType RecordType, payload Payload) (string, error) {
	if !recordType.Valid() {
		return "", errors.New(errors.KindHistory, "history.add",
			fmt.Sprintf("未知记录类型: %s", recordType))
	}
	if payload == nil {
		return "", errors.New(errors.KindHistory, "history.add", "载荷不能为空")
	}
	if payload.payloadType() != recordType {
		return "", errors.New(errors.KindHistory, "history.add",
			fmt.Sprintf("载荷与记录类型不匹配: %s", recordType))
	}

	record := &Record{
		ID:        uuid.NewString(),
		Type:      recordType,
		CreatedAt: time.Now().UnixMilli(),
		Payload:   payload,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Insert(ctx, record); err != nil {
		return "", err
	}

	s.logger.DebugTag("历史", "新增记录 %s (%s)", record.ID, recordType)
	eventbus.Publish(eventbus.TopicHistoryChanged)
	return record.ID, nil
}

// Update 浅合并可变更字段（当前只有winner）。id不存在时为no-op。
func (s *Service) Update(ctx context.Context, id string, fields UpdateFields) error {
	if fields.Winner == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	if err := s.repo.UpdateWinner(ctx, id, *fields.Winner); err != nil {
		return err
	}

	s.logger.DebugTag("历史", "记录 %s winner更新为 %d", id, *fields.Winner)
	eventbus.Publish(eventbus.TopicHistoryChanged)
	return nil
}

// Delete 删除整条记录
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteAndNotify(ctx, id)
}

// DeleteSubItem 删除复合记录中的一个子项。最后一个子项被删除时
// 整条记录被删除，数组永远不会被写成空。失败时记录保持原状。
func (s *Service) DeleteSubItem(ctx context.Context, id string, index int, recordType RecordType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	switch recordType {
	case TypeSingleTextMultipleVoices:
		payload, ok := record.Payload.(SingleTextMultipleVoicesPayload)
		if !ok {
			return malformedPayload(id, recordType)
		}
		if index < 0 || index >= len(payload.Voices) {
			return indexOutOfRange(id, index, len(payload.Voices))
		}
		if len(payload.Voices) == 1 {
			return s.deleteAndNotify(ctx, id)
		}
		payload.Voices = removeClip(payload.Voices, index)
		record.Payload = payload
		return s.replaceAndNotify(ctx, record)

	case TypeMultipleTextsSingleVoice:
		payload, ok := record.Payload.(MultipleTextsSingleVoicePayload)
		if !ok {
			return malformedPayload(id, recordType)
		}
		if index < 0 || index >= len(payload.Texts) || len(payload.Texts) != len(payload.URLs) {
			return indexOutOfRange(id, index, len(payload.Texts))
		}
		if len(payload.Texts) == 1 {
			return s.deleteAndNotify(ctx, id)
		}
		// texts与urls同步移动，保持配对关系
		payload.Texts = removeString(payload.Texts, index)
		payload.URLs = removeString(payload.URLs, index)
		record.Payload = payload
		return s.replaceAndNotify(ctx, record)

	case TypeMultipleTextsMultipleVoices:
		payload, ok := record.Payload.(MultipleTextsMultipleVoicesPayload)
		if !ok {
			return malformedPayload(id, recordType)
		}
		if index < 0 || index >= len(payload.Pairs) {
			return indexOutOfRange(id, index, len(payload.Pairs))
		}
		if len(payload.Pairs) == 1 {
			return s.deleteAndNotify(ctx, id)
		}
		payload.Pairs = removePair(payload.Pairs, index)
		record.Payload = payload
		return s.replaceAndNotify(ctx, record)

	default:
		// 单项记录删除子项等价于删除整条记录
		return s.deleteAndNotify(ctx, id)
	}
}

func (s *Service) deleteAndNotify(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.DebugTag("历史", "记录 %s 已删除", id)
	eventbus.Publish(eventbus.TopicHistoryChanged)
	return nil
}

func (s *Service) replaceAndNotify(ctx context.Context, record *Record) error {
	if err := s.repo.Replace(ctx, record); err != nil {
		return err
	}
	s.logger.DebugTag("历史", "记录 %s 子项已删除", record.ID)
	eventbus.Publish(eventbus.TopicHistoryChanged)
	return nil
}

// ListPage 按创建时间倒序分页。page从1开始计数。
func (s *Service) ListPage(ctx context.Context, page, pageSize int, filter Filter) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	items, err := s.repo.List(ctx, offset, pageSize, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:       items,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
		CurrentPage: page,
	}, nil
}

// PKRecords 返回全部pk类型记录（排行榜聚合输入）
func (s *Service) PKRecords(ctx context.Context) ([]*Record, error) {
	total, err := s.repo.Count(ctx, FilterPK)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	return s.repo.List(ctx, 0, int(total), FilterPK)
}

func malformedPayload(id string, t RecordType) error {
	return errors.New(errors.KindHistory, "history.delete_sub_item",
		fmt.Sprintf("记录 %s 载荷与类型 %s 不匹配", id, t))
}

func indexOutOfRange(id string, index, length int) error {
	return errors.New(errors.KindHistory, "history.delete_sub_item",
		fmt.Sprintf("记录 %s 子项下标越界: %d (长度 %d)", id, index, length))
}

func removeClip(s []VoiceClip, i int) []VoiceClip {
	out := make([]VoiceClip, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func removeString(s []string, i int) []string {
	out := make([]string, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func removePair(s []TextVoicePair, i int) []TextVoicePair {
	out := make([]TextVoicePair, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
