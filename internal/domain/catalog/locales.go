package catalog

import (
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// localizer 性别标签等展示用文案的本地化
type localizer struct {
	inner *i18n.Localizer
}

func newLocalizer(locale string) *localizer {
	bundle := i18n.NewBundle(language.English)

	// 文案内置，无需外部语言文件
	bundle.AddMessages(language.English,
		&i18n.Message{ID: "common.female", Other: "Female"},
		&i18n.Message{ID: "common.male", Other: "Male"},
		&i18n.Message{ID: "common.neutral", Other: "Neutral"},
	)
	bundle.AddMessages(language.Chinese,
		&i18n.Message{ID: "common.female", Other: "女"},
		&i18n.Message{ID: "common.male", Other: "男"},
		&i18n.Message{ID: "common.neutral", Other: "中性"},
	)

	return &localizer{inner: i18n.NewLocalizer(bundle, locale)}
}

// GenderTag 返回本地化的性别标签，未知取值原样返回
func (l *localizer) GenderTag(gender string) string {
	id := "common." + strings.ToLower(gender)
	tag, err := l.inner.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return gender
	}
	return tag
}
