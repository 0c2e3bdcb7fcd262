package eventbus

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

// 竞技场内部事件主题
const (
	// TopicHistoryChanged 历史记录集发生变化（新增/更新/删除/子项删除）
	TopicHistoryChanged = "history.changed"
	// TopicLeaderboardUpdated 排行榜完成一次全量重算
	TopicLeaderboardUpdated = "leaderboard.updated"
	// TopicCatalogRefreshed 语音目录完成刷新，参数为最新目录快照
	TopicCatalogRefreshed = "catalog.refreshed"
)

var (
	instance evbus.Bus
	once     sync.Once
)

// Get 获取同步事件总线实例
func Get() evbus.Bus {
	once.Do(func() {
		instance = New()
	})
	return instance
}

// New 创建新的同步事件总线
func New() evbus.Bus {
	return evbus.New()
}

// Publish 发布同步事件
func Publish(topic string, args ...interface{}) {
	Get().Publish(topic, args...)
}

// Subscribe 订阅同步事件
func Subscribe(topic string, fn interface{}) error {
	return Get().Subscribe(topic, fn)
}

// SubscribeAsync 订阅异步事件（独立goroutine中回调）。
// transactional为true时同一订阅者的回调按发布顺序串行执行，
// 用于回调内部写共享状态的订阅者。
func SubscribeAsync(topic string, fn interface{}, transactional bool) error {
	return Get().SubscribeAsync(topic, fn, transactional)
}

// Unsubscribe 取消订阅
func Unsubscribe(topic string, fn interface{}) error {
	return Get().Unsubscribe(topic, fn)
}

// WaitAsync 等待异步回调完成（用于测试与关停）
func WaitAsync() {
	Get().WaitAsync()
}
