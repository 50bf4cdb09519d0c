package theme

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ColorsPatch 等补丁类型用指针区分"未提供"与"零值"。
type ColorsPatch struct {
	Primary    *string `json:"primary,omitempty"`
	Secondary  *string `json:"secondary,omitempty"`
	Accent     *string `json:"accent,omitempty"`
	Text       *string `json:"text,omitempty"`
	Background *string `json:"background,omitempty"`
	Border     *string `json:"border,omitempty"`
}

type TypographyPatch struct {
	FontFamily        *string  `json:"fontFamily,omitempty"`
	HeadingFontFamily *string  `json:"headingFontFamily,omitempty"`
	NameSize          *float64 `json:"nameSize,omitempty"`
	HeadingSize       *float64 `json:"headingSize,omitempty"`
	BodySize          *float64 `json:"bodySize,omitempty"`
	SmallSize         *float64 `json:"smallSize,omitempty"`
	LineHeight        *float64 `json:"lineHeight,omitempty"`
}

type LayoutPatch struct {
	SectionGap     *float64 `json:"sectionGap,omitempty"`
	ItemGap        *float64 `json:"itemGap,omitempty"`
	ContentPadding *float64 `json:"contentPadding,omitempty"`
}

type StylePatch struct {
	UseIcons    *bool         `json:"useIcons,omitempty"`
	Divider     *DividerStyle `json:"dividerStyle,omitempty"`
	PillSkills  *bool         `json:"pillSkills,omitempty"`
	HeadingCase *HeadingCase  `json:"headingCase,omitempty"`
}

// Patch 是主题字段的子集，既用于区块覆盖，也是自定义主题的主体。
type Patch struct {
	Colors     *ColorsPatch     `json:"colors,omitempty"`
	Typography *TypographyPatch `json:"typography,omitempty"`
	Layout     *LayoutPatch     `json:"layout,omitempty"`
	Style      *StylePatch      `json:"style,omitempty"`
}

// Custom 是用户编写的自定义主题，与 Theme 同构但每个字段都可缺省。
type Custom struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Patch
}

// Validation 是结构校验的带标签结果：Valid(Custom) 或 Invalid。
type Validation struct {
	custom Custom
	valid  bool
	reason string
}

// Valid 构造一个通过校验的结果。
func Valid(c Custom) Validation {
	return Validation{custom: c, valid: true}
}

// Invalid 构造一个未通过校验的结果。
func Invalid(reason string) Validation {
	return Validation{reason: reason}
}

// Theme 仅在校验通过时返回自定义主题。
func (v Validation) Theme() (Custom, bool) {
	if !v.valid {
		return Custom{}, false
	}
	return v.custom, true
}

// Reason 返回校验失败的原因，校验通过时为空。
func (v Validation) Reason() string {
	return v.reason
}

// ValidateCustom 对序列化的自定义主题做结构检查：id、name 必须是非空字符串，colors 必须是对象。
// 任何不符合的输入都返回 Invalid，调用方应当忽略该覆盖而不是报错。
func ValidateCustom(raw []byte) Validation {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Invalid("custom theme is empty")
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Invalid("custom theme is not a json object")
	}

	for _, field := range []string{"id", "name"} {
		var value string
		if err := json.Unmarshal(shape[field], &value); err != nil || strings.TrimSpace(value) == "" {
			return Invalid(field + " must be a non-empty string")
		}
	}
	if colors := bytes.TrimSpace(shape["colors"]); len(colors) == 0 || colors[0] != '{' {
		return Invalid("colors must be an object")
	}

	var custom Custom
	if err := json.Unmarshal(raw, &custom); err != nil {
		return Invalid("custom theme fields have unexpected types")
	}
	return CheckCustom(&custom)
}

// CheckCustom 对已解码的自定义主题做同样的结构检查。
func CheckCustom(c *Custom) Validation {
	switch {
	case c == nil:
		return Invalid("custom theme is nil")
	case strings.TrimSpace(c.ID) == "":
		return Invalid("id must be a non-empty string")
	case strings.TrimSpace(c.Name) == "":
		return Invalid("name must be a non-empty string")
	case c.Colors == nil:
		return Invalid("colors must be an object")
	}
	return Valid(*c)
}

// DecodeOverrides 解码以区块 id 为键的覆盖表；无法解析时返回空表。
func DecodeOverrides(raw []byte) map[string]Patch {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var overrides map[string]Patch
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil
	}
	return overrides
}
