package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"voice-arena-go/internal/domain/providers"
	"voice-arena-go/internal/platform/logging"
)

// openaiAllowedVoices OpenAI只保留这几个音色
var openaiAllowedVoices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

// Builder 从供应商元数据构建目录树
type Builder struct {
	catalog *Catalog
	locale  string
	loc     *localizer
	logger  *logging.Logger
}

// NewBuilder 创建目录构建器。locale决定性别标签语言，
// 以及Azure语种分组是否只保留中文。
func NewBuilder(catalog *Catalog, locale string, logger *logging.Logger) *Builder {
	return &Builder{
		catalog: catalog,
		locale:  locale,
		loc:     newLocalizer(locale),
		logger:  logger,
	}
}

// Build 用供应商元数据刷新目录。每个已知供应商独立处理：
// 列表中缺失的供应商保留现有子节点，单个供应商构建失败只记录日志。
func (b *Builder) Build(providerList []providers.Info) {
	type result struct {
		platform string
		children []Node
	}
	var results []result

	if p := findProvider(providerList, "openai"); p != nil {
		results = append(results, result{PlatformOpenAI, b.buildOpenAI(p)})
	}
	if p := findProvider(providerList, "azure"); p != nil {
		results = append(results, result{PlatformAzure, b.buildAzure(p)})
	}
	if p := findProvider(providerList, "doubao"); p != nil {
		results = append(results, result{PlatformDoubao, b.buildFlat(p, true)})
	}
	if p := findProvider(providerList, "fish"); p != nil {
		results = append(results, result{PlatformFish, b.buildFlat(p, false)})
	}
	if p := findProvider(providerList, "minimaxi"); p != nil {
		results = append(results, result{PlatformMinimaxi, b.buildFlat(p, true)})
	}

	b.catalog.mu.Lock()
	for _, r := range results {
		b.catalog.setChildren(r.platform, r.children)
	}
	b.catalog.mu.Unlock()

	b.logger.InfoTag("目录", "供应商元数据已刷新，更新 %d 个供应商", len(results))
}

// findProvider 按名称大小写不敏感匹配供应商，未识别的供应商被忽略
func findProvider(list []providers.Info, name string) *providers.Info {
	for i := range list {
		if strings.EqualFold(list[i].Provider, name) {
			return &list[i]
		}
	}
	return nil
}

// voiceLabel 组合展示名与本地化性别标签
func (b *Builder) voiceLabel(name, voice, gender string) string {
	if name == "" {
		name = voice
	}
	if gender == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, b.loc.GenderTag(gender))
}

// buildOpenAI 过滤到固定音色白名单，展示名首字母大写
func (b *Builder) buildOpenAI(p *providers.Info) []Node {
	children := make([]Node, 0, len(openaiAllowedVoices))
	for _, v := range p.ReqParamsInfo.VoiceList {
		if !openaiAllowedVoices[strings.ToLower(v.Voice)] {
			continue
		}
		voice := v
		children = append(children, LeafNode(VoiceOption{
			Key:        v.Voice,
			Label:      b.voiceLabel(titleCase(v.Name), v.Voice, v.Gender),
			Value:      v.Voice,
			OriginData: &voice,
		}))
	}
	return children
}

// buildFlat 其余供应商1:1映射为叶子节点
func (b *Builder) buildFlat(p *providers.Info, withGender bool) []Node {
	children := make([]Node, 0, len(p.ReqParamsInfo.VoiceList))
	for _, v := range p.ReqParamsInfo.VoiceList {
		voice := v
		gender := v.Gender
		if !withGender {
			gender = ""
		}
		children = append(children, LeafNode(VoiceOption{
			Key:        v.Voice,
			Label:      b.voiceLabel(v.Name, v.Voice, gender),
			Value:      v.Voice,
			OriginData: &voice,
		}))
	}
	return children
}

// buildAzure 按BCP-47主语种分组。只保留能通过ISO 639-1校验的语种，
// 中文分组永远排第一，界面语言为中文时丢弃其他语种分组。
func (b *Builder) buildAzure(p *providers.Info) []Node {
	voiceList := p.ReqParamsInfo.VoiceList

	options := make([]VoiceOption, 0, len(voiceList))
	for _, v := range voiceList {
		voice := v
		options = append(options, VoiceOption{
			Key:        v.Voice,
			Label:      b.voiceLabel(v.Name, v.Voice, v.Gender),
			Value:      v.Voice,
			OriginData: &voice,
		})
	}

	// 提取去重后的主语种代码
	seen := make(map[string]bool)
	var codes []string
	for _, v := range voiceList {
		code := primarySubtag(v.Voice)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		if validISO639(code) {
			codes = append(codes, code)
		}
	}

	// 界面语言为中文时只保留中文分组
	if strings.HasPrefix(strings.ToLower(b.locale), "zh") {
		filtered := codes[:0]
		for _, code := range codes {
			if code == "zh" {
				filtered = append(filtered, code)
			}
		}
		codes = filtered
	}

	groups := make([]VoiceGroup, 0, len(codes))
	for _, code := range codes {
		var langVoices []Node
		for i := range options {
			if strings.HasPrefix(options[i].Value, code) {
				langVoices = append(langVoices, Node{Kind: KindLeaf, Leaf: &options[i]})
			}
		}
		groups = append(groups, VoiceGroup{
			Key:      code,
			Label:    nativeLanguageName(code),
			Value:    code,
			Children: langVoices,
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Key == "zh" {
			return true
		}
		if groups[j].Key == "zh" {
			return false
		}
		return groups[i].Label < groups[j].Label
	})

	children := make([]Node, 0, len(groups))
	for _, g := range groups {
		children = append(children, GroupNode(g))
	}
	return children
}

// primarySubtag 取音色标识第一个连字符之前的部分作为语种代码
func primarySubtag(voice string) string {
	if idx := strings.Index(voice, "-"); idx > 0 {
		return voice[:idx]
	}
	return voice
}

// validISO639 校验两位ISO 639-1语言代码
func validISO639(code string) bool {
	if len(code) != 2 {
		return false
	}
	base, err := language.ParseBase(code)
	return err == nil && base.String() == code
}

// nativeLanguageName 语种的本族语名称，如zh -> 中文
func nativeLanguageName(code string) string {
	tag := language.Make(code)
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
