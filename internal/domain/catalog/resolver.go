package catalog

import (
	"strings"
)

// ResolveLabel 把复合音色ID（"<平台>:<音色>"）解析为展示名。
// 查找失败永不报错：Azure带连字符的音色命中语种分组后查不到时
// 回退到裸音色段，其余未命中情况回退到原始输入。
func ResolveLabel(groups []*VoiceGroup, compoundID string) string {
	if compoundID == "" {
		return compoundID
	}

	idx := strings.Index(compoundID, ":")
	if idx < 0 {
		// 缺少平台前缀，原样返回
		return compoundID
	}
	platform := compoundID[:idx]
	voiceID := compoundID[idx+1:]

	var platformGroup *VoiceGroup
	for _, g := range groups {
		if g.Value == platform {
			platformGroup = g
			break
		}
	}
	if platformGroup == nil {
		return compoundID
	}

	if platform == PlatformAzure && strings.Contains(voiceID, "-") {
		locale := voiceID[:strings.Index(voiceID, "-")]
		for _, child := range platformGroup.Children {
			if child.Kind != KindGroup || child.Group.Value != locale {
				continue
			}
			for _, leaf := range child.Group.Children {
				if leaf.Kind == KindLeaf && leaf.Leaf.Value == voiceID {
					return leaf.Leaf.Label
				}
			}
			break
		}
		return voiceID
	}

	for _, child := range platformGroup.Children {
		if child.Kind != KindLeaf {
			continue
		}
		if child.Leaf.Value == voiceID || platform+":"+child.Leaf.Value == compoundID {
			return child.Leaf.Label
		}
	}
	return voiceID
}

// DisplayPlatform 平台展示名：Minimaxi固定显示为Minimax，
// 其余平台首字母大写。
func DisplayPlatform(platform string) string {
	if strings.EqualFold(platform, PlatformMinimaxi) {
		return "Minimax"
	}
	if platform == "" {
		return platform
	}
	return strings.ToUpper(platform[:1]) + platform[1:]
}
