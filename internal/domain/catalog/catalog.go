package catalog

import (
	"context"
	"sync"

	"voice-arena-go/internal/platform/errors"
	"voice-arena-go/internal/platform/logging"
)

// CustomVoiceSource 克隆音色集合的只读视图
type CustomVoiceSource interface {
	ListCustomVoices(ctx context.Context) ([]CustomVoice, error)
}

// Catalog 持有供应商→音色分类树的规范映射。树在进程内共享，
// 全部变更都在Catalog自身的锁保护下原地完成。
type Catalog struct {
	mu     sync.RWMutex
	groups []*VoiceGroup
	logger *logging.Logger
}

// New 创建带静态种子分组的目录。OpenAI预置固定音色，
// 其余供应商分组为空，等待元数据刷新填充。
func New(logger *logging.Logger) *Catalog {
	return &Catalog{
		groups: seedGroups(),
		logger: logger,
	}
}

func seedGroups() []*VoiceGroup {
	openaiSeed := []string{"fable", "alloy", "echo", "nova", "shimmer"}
	openaiChildren := make([]Node, 0, len(openaiSeed))
	for _, v := range openaiSeed {
		openaiChildren = append(openaiChildren, LeafNode(VoiceOption{Key: v, Label: v, Value: v}))
	}

	return []*VoiceGroup{
		{Key: PlatformOpenAI, Label: "OpenAI", Value: PlatformOpenAI, Children: openaiChildren},
		{Key: PlatformAzure, Label: "Azure", Value: PlatformAzure},
		{Key: PlatformDoubao, Label: "Doubao", Value: PlatformDoubao},
		{Key: PlatformFish, Label: "FishAudio", Value: PlatformFish},
		{Key: PlatformMinimaxi, Label: "Minimax", Value: PlatformMinimaxi},
		{Key: PlatformCustom, Label: "Custom", Value: PlatformCustom},
	}
}

// Snapshot 返回当前目录树的深拷贝，供解析和展示使用
func (c *Catalog) Snapshot() []*VoiceGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*VoiceGroup, len(c.groups))
	for i, g := range c.groups {
		out[i] = copyGroup(g)
	}
	return out
}

func copyGroup(g *VoiceGroup) *VoiceGroup {
	cp := &VoiceGroup{Key: g.Key, Label: g.Label, Value: g.Value}
	if len(g.Children) == 0 {
		return cp
	}
	cp.Children = make([]Node, len(g.Children))
	for i, child := range g.Children {
		switch child.Kind {
		case KindGroup:
			cp.Children[i] = Node{Kind: KindGroup, Group: copyGroup(child.Group)}
		default:
			leaf := *child.Leaf
			cp.Children[i] = Node{Kind: KindLeaf, Leaf: &leaf}
		}
	}
	return cp
}

// findGroup 按value查找顶级分组，需在持锁状态下调用
func (c *Catalog) findGroup(value string) *VoiceGroup {
	for _, g := range c.groups {
		if g.Value == value {
			return g
		}
	}
	return nil
}

// setChildren 替换某个顶级分组的子节点，需在持锁状态下调用
func (c *Catalog) setChildren(value string, children []Node) {
	if g := c.findGroup(value); g != nil {
		g.Children = children
	}
}

// RefreshCustomVoices 用克隆音色集合的当前内容替换custom分组的子节点
func (c *Catalog) RefreshCustomVoices(ctx context.Context, source CustomVoiceSource) error {
	voices, err := source.ListCustomVoices(ctx)
	if err != nil {
		return errors.Wrap(errors.KindCatalog, "catalog.refresh_custom", "读取克隆音色失败", err)
	}

	children := make([]Node, 0, len(voices))
	for _, v := range voices {
		children = append(children, LeafNode(VoiceOption{
			Key:   v.ID,
			Label: v.Title,
			Value: v.ID,
		}))
	}

	c.mu.Lock()
	c.setChildren(PlatformCustom, children)
	c.mu.Unlock()

	c.logger.InfoTag("目录", "克隆音色已刷新，共 %d 个", len(voices))
	return nil
}
