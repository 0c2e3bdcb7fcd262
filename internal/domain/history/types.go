package history

import (
	"fmt"

	"github.com/bytedance/sonic"

	"voice-arena-go/internal/platform/errors"
)

// RecordType 历史记录类型判别值
type RecordType string

const (
	TypePK                          RecordType = "pk"
	TypeSingleTextSingleVoice       RecordType = "generate-single-text-single-voice"
	TypeSingleTextMultipleVoices    RecordType = "generate-single-text-multiple-voices"
	TypeMultipleTextsSingleVoice    RecordType = "generate-multiple-texts-single-voice"
	TypeMultipleTextsMultipleVoices RecordType = "generate-multiple-texts-multiple-voices"
)

// Valid 判断是否为已知记录类型
func (t RecordType) Valid() bool {
	switch t {
	case TypePK, TypeSingleTextSingleVoice, TypeSingleTextMultipleVoices,
		TypeMultipleTextsSingleVoice, TypeMultipleTextsMultipleVoices:
		return true
	}
	return false
}

// IsGeneration 非pk的记录都是生成类记录
func (t RecordType) IsGeneration() bool {
	return t != TypePK
}

// Payload 记录载荷，五种类型各对应一个具体结构
type Payload interface {
	payloadType() RecordType
}

// PKSide PK对战中一侧的合成结果
type PKSide struct {
	Platform string `json:"platform"`
	Voice    string `json:"voice"`
	Text     string `json:"text"`
	URL      string `json:"url"`
}

// PKPayload 两个音色就同一文本的对战
type PKPayload struct {
	Left  PKSide `json:"left"`
	Right PKSide `json:"right"`
}

func (PKPayload) payloadType() RecordType { return TypePK }

// SingleTextSingleVoicePayload 单文本单音色生成
type SingleTextSingleVoicePayload struct {
	Voice      string `json:"voice"`
	Text       string `json:"text"`
	URL        string `json:"url"`
	Platform   string `json:"platform"`
	VoiceTitle string `json:"voiceTitle,omitempty"`
}

func (SingleTextSingleVoicePayload) payloadType() RecordType { return TypeSingleTextSingleVoice }

// VoiceClip 复合记录里的单个生成结果
type VoiceClip struct {
	Voice    string `json:"voice"`
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

// SingleTextMultipleVoicesPayload 同一文本由多个音色生成
type SingleTextMultipleVoicesPayload struct {
	Text   string      `json:"text"`
	Voices []VoiceClip `json:"voices"`
}

func (SingleTextMultipleVoicesPayload) payloadType() RecordType { return TypeSingleTextMultipleVoices }

// MultipleTextsSingleVoicePayload 多个文本由同一音色生成。
// Texts与URLs是平行数组，长度恒等，变更时必须同步。
type MultipleTextsSingleVoicePayload struct {
	Voice    string   `json:"voice"`
	Platform string   `json:"platform"`
	Texts    []string `json:"texts"`
	URLs     []string `json:"urls"`
}

func (MultipleTextsSingleVoicePayload) payloadType() RecordType { return TypeMultipleTextsSingleVoice }

// TextVoicePair 文本×音色组合的单个生成结果
type TextVoicePair struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// MultipleTextsMultipleVoicesPayload 多文本多音色组合生成
type MultipleTextsMultipleVoicesPayload struct {
	Pairs []TextVoicePair `json:"pairs"`
}

func (MultipleTextsMultipleVoicesPayload) payloadType() RecordType {
	return TypeMultipleTextsMultipleVoices
}

// Record 一条历史记录。ID与CreatedAt在创建时分配后不再变化，
// Winner只对pk类型有意义（0=左侧胜，1=右侧胜，nil=平局/未判）。
type Record struct {
	ID        string     `json:"id"`
	Type      RecordType `json:"type"`
	Winner    *int       `json:"winner,omitempty"`
	CreatedAt int64      `json:"createdAt"`
	Payload   Payload    `json:"voices"`
}

// MarshalPayload 将载荷序列化为JSON
func MarshalPayload(p Payload) ([]byte, error) {
	data, err := sonic.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.KindHistory, "payload.marshal", "序列化载荷失败", err)
	}
	return data, nil
}

// UnmarshalPayload 按记录类型还原载荷
func UnmarshalPayload(t RecordType, data []byte) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch t {
	case TypePK:
		var v PKPayload
		err = sonic.Unmarshal(data, &v)
		p = v
	case TypeSingleTextSingleVoice:
		var v SingleTextSingleVoicePayload
		err = sonic.Unmarshal(data, &v)
		p = v
	case TypeSingleTextMultipleVoices:
		var v SingleTextMultipleVoicesPayload
		err = sonic.Unmarshal(data, &v)
		p = v
	case TypeMultipleTextsSingleVoice:
		var v MultipleTextsSingleVoicePayload
		err = sonic.Unmarshal(data, &v)
		p = v
	case TypeMultipleTextsMultipleVoices:
		var v MultipleTextsMultipleVoicesPayload
		err = sonic.Unmarshal(data, &v)
		p = v
	default:
		return nil, errors.New(errors.KindHistory, "payload.unmarshal",
			fmt.Sprintf("未知记录类型: %s", t))
	}
	if err != nil {
		return nil, errors.Wrap(errors.KindHistory, "payload.unmarshal", "解析载荷失败", err)
	}
	return p, nil
}
