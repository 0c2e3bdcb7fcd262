package catalog

import (
	"testing"

	"voice-arena-go/internal/domain/providers"
)

func testGroups(t *testing.T) []*VoiceGroup {
	t.Helper()

	c := New(nil)
	b := NewBuilder(c, "en", nil)
	b.Build([]providers.Info{
		providerInfo("openai",
			providers.Voice{Voice: "alloy", Name: "alloy", Gender: "Female"},
		),
		providerInfo("azure",
			providers.Voice{Voice: "zh-CN-XiaoxiaoNeural", Name: "晓晓", Gender: "Female"},
			providers.Voice{Voice: "en-US-JennyNeural", Name: "Jenny", Gender: "Female"},
		),
		providerInfo("doubao",
			providers.Voice{Voice: "zh_female_1", Name: "湾湾小何", Gender: "Female"},
		),
	})
	return c.Snapshot()
}

func TestResolveLabel(t *testing.T) {
	groups := testGroups(t)

	tests := []struct {
		name     string
		compound string
		want     string
	}{
		{"空输入原样返回", "", ""},
		{"缺少平台前缀原样返回", "alloy", "alloy"},
		{"未知平台返回完整复合ID", "Unknown:foo", "Unknown:foo"},
		{"平台段大小写敏感", "openai:alloy", "openai:alloy"},
		{"普通平台命中返回展示名", "Doubao:zh_female_1", "湾湾小何 (Female)"},
		{"普通平台未命中返回裸音色段", "Doubao:ghost", "ghost"},
		{"OpenAI命中", "OpenAI:alloy", "Alloy (Female)"},
		{"Azure经语种分组命中", "Azure:zh-CN-XiaoxiaoNeural", "晓晓 (Female)"},
		{"Azure语种分组内未命中返回裸音色段", "Azure:zh-CN-Missing", "zh-CN-Missing"},
		{"Azure语种分组不存在返回裸音色段", "Azure:fr-FR-DeniseNeural", "fr-FR-DeniseNeural"},
		{"Azure无连字符走平铺查找", "Azure:standalone", "standalone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLabel(groups, tt.compound); got != tt.want {
				t.Errorf("ResolveLabel(%q) = %q, want %q", tt.compound, got, tt.want)
			}
		})
	}
}

func TestDisplayPlatform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Minimaxi", "Minimax"},
		{"minimaxi", "Minimax"},
		{"fish", "Fish"},
		{"OpenAI", "OpenAI"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DisplayPlatform(tt.in); got != tt.want {
			t.Errorf("DisplayPlatform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
