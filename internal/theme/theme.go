// Package theme 提供主题目录、自定义主题的结构校验以及三级样式合并。
package theme

// DividerStyle 控制区块标题下方分隔线的样式。
type DividerStyle string

const (
	DividerNone   DividerStyle = "none"
	DividerSolid  DividerStyle = "solid"
	DividerDashed DividerStyle = "dashed"
	DividerDouble DividerStyle = "double"
)

// HeadingCase 控制区块标题的大小写转换。
type HeadingCase string

const (
	HeadingCaseNone       HeadingCase = "none"
	HeadingCaseUpper      HeadingCase = "uppercase"
	HeadingCaseLower      HeadingCase = "lowercase"
	HeadingCaseCapitalize HeadingCase = "capitalize"
)

// Colors 是主题调色板。
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Typography 描述字体族与字号（pt）。
type Typography struct {
	FontFamily        string  `json:"fontFamily"`
	HeadingFontFamily string  `json:"headingFontFamily"`
	NameSize          float64 `json:"nameSize"`
	HeadingSize       float64 `json:"headingSize"`
	BodySize          float64 `json:"bodySize"`
	SmallSize         float64 `json:"smallSize"`
	LineHeight        float64 `json:"lineHeight"`
}

// Layout 是主题中的间距刻度（pt），与 layout 包的结构布局无关。
type Layout struct {
	SectionGap     float64 `json:"sectionGap"`
	ItemGap        float64 `json:"itemGap"`
	ContentPadding float64 `json:"contentPadding"`
}

// Style 是装饰性开关。
type Style struct {
	UseIcons    bool         `json:"useIcons"`
	Divider     DividerStyle `json:"dividerStyle"`
	PillSkills  bool         `json:"pillSkills"`
	HeadingCase HeadingCase  `json:"headingCase"`
}

// Theme 是不可变的具名样式描述。
type Theme struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Colors      Colors     `json:"colors"`
	Typography  Typography `json:"typography"`
	Layout      Layout     `json:"layout"`
	Style       Style      `json:"style"`
}

// EffectiveStyle 是某个区块合并完成后的样式，只在单次渲染中存在。
type EffectiveStyle struct {
	SectionID  string
	ThemeID    string
	Colors     Colors
	Typography Typography
	Layout     Layout
	Style      Style
}
