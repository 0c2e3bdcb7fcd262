package catalog

import (
	"voice-arena-go/internal/domain/providers"
)

// 顶级供应商分组的固定标识。value用作复合音色ID的平台段，
// 其中Minimaxi对外展示为Minimax（历史遗留命名）。
const (
	PlatformOpenAI   = "OpenAI"
	PlatformAzure    = "Azure"
	PlatformDoubao   = "Doubao"
	PlatformFish     = "fish"
	PlatformMinimaxi = "Minimaxi"
	PlatformCustom   = "custom"
)

// NodeKind 节点类型判别标记
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindGroup
)

// VoiceOption 音色叶子节点。Value是供应商侧的音色标识，
// OriginData保留原始供应商记录（性别、情感标签、试听样本）。
type VoiceOption struct {
	Key        string           `json:"key"`
	Label      string           `json:"label"`
	Value      string           `json:"value"`
	OriginData *providers.Voice `json:"originData,omitempty"`
}

// VoiceGroup 供应商或中间分组节点。除Azure外，供应商分组的子节点
// 都是音色叶子；Azure分组的子节点是语种分组，语种分组再包含叶子。
type VoiceGroup struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Children []Node `json:"children"`
}

// Node 目录树节点，Leaf与Group二选一，由Kind判别
type Node struct {
	Kind  NodeKind     `json:"kind"`
	Leaf  *VoiceOption `json:"leaf,omitempty"`
	Group *VoiceGroup  `json:"group,omitempty"`
}

// LeafNode 构造叶子节点
func LeafNode(opt VoiceOption) Node {
	return Node{Kind: KindLeaf, Leaf: &opt}
}

// GroupNode 构造分组节点
func GroupNode(group VoiceGroup) Node {
	return Node{Kind: KindGroup, Group: &group}
}

// CustomVoice 已持久化的克隆音色（外部音色克隆流程写入）
type CustomVoice struct {
	ID    string
	Title string
}
