package leaderboard

import (
	"context"
	"sync"

	"voice-arena-go/internal/domain/eventbus"
	"voice-arena-go/internal/domain/history"
	"voice-arena-go/internal/platform/logging"
)

// Service 订阅历史记录变化，每次变化全量重算排行榜并缓存结果。
// 记录集规模预期在几十到几千条，全量重算是被接受的取舍。
type Service struct {
	histories *history.Service
	logger    *logging.Logger

	mu    sync.RWMutex
	stats []ModelStats
}

// NewService 创建排行榜服务并完成一次初始聚合
func NewService(ctx context.Context, histories *history.Service, logger *logging.Logger) (*Service, error) {
	s := &Service{
		histories: histories,
		logger:    logger,
	}

	// 串行回调：并发重算可能让较早的读以更晚的写落盘，缓存过期结果
	if err := eventbus.SubscribeAsync(eventbus.TopicHistoryChanged, s.onHistoryChanged, true); err != nil {
		return nil, err
	}

	s.recompute(ctx)
	return s, nil
}

// Stats 返回最近一次聚合的排行榜
func (s *Service) Stats() []ModelStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ModelStats, len(s.stats))
	copy(out, s.stats)
	return out
}

func (s *Service) onHistoryChanged() {
	s.recompute(context.Background())
}

func (s *Service) recompute(ctx context.Context) {
	records, err := s.histories.PKRecords(ctx)
	if err != nil {
		// 重算失败保留上一次结果
		s.logger.WarnTag("排行", "读取pk记录失败: %v", err)
		return
	}

	stats := Aggregate(records)

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()

	eventbus.Publish(eventbus.TopicLeaderboardUpdated, stats)
	s.logger.DebugTag("排行", "排行榜已重算，共 %d 个模型", len(stats))
}

// Close 取消事件订阅
func (s *Service) Close() error {
	return eventbus.Unsubscribe(eventbus.TopicHistoryChanged, s.onHistoryChanged)
}
