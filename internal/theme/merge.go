package theme

import (
	"maps"
	"regexp"
	"strings"
)

var (
	colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\(\s*[0-9.%\s,]+\))$`)
	fontPattern  = regexp.MustCompile(`^[A-Za-z0-9 \-]{1,64}$`)
)

// Merger 按 主题 → 自定义主题 → 区块覆盖 的顺序合并样式，后者优先。
// 合并按字段组（colors/typography/layout/style）分别进行，组内只替换补丁中出现的字段。
type Merger struct {
	base      Theme
	custom    *Custom
	overrides map[string]Patch
}

// NewMerger 构造合并器。未通过校验的自定义主题被视为不存在。
func NewMerger(base Theme, custom Validation, overrides map[string]Patch) *Merger {
	m := &Merger{
		base:      withDefaults(base),
		overrides: maps.Clone(overrides),
	}
	if c, ok := custom.Theme(); ok {
		m.custom = &c
	}
	return m
}

// ResolveEffectiveStyle 是 NewMerger(...).Resolve(sectionID) 的一次性形式。
func ResolveEffectiveStyle(base Theme, custom Validation, overrides map[string]Patch, sectionID string) EffectiveStyle {
	return NewMerger(base, custom, overrides).Resolve(sectionID)
}

// Global 返回不含区块覆盖的文档级样式，用于页眉与页面框架。
func (m *Merger) Global() EffectiveStyle {
	style := EffectiveStyle{
		ThemeID:    m.base.ID,
		Colors:     m.base.Colors,
		Typography: m.base.Typography,
		Layout:     m.base.Layout,
		Style:      m.base.Style,
	}
	if m.custom != nil {
		style.ThemeID = m.custom.ID
		style = applyPatch(style, m.custom.Patch)
	}
	return style
}

// Resolve 返回指定区块的有效样式。
func (m *Merger) Resolve(sectionID string) EffectiveStyle {
	style := m.Global()
	style.SectionID = sectionID
	if patch, ok := m.overrides[sectionID]; ok {
		style = applyPatch(style, patch)
	}
	return style
}

func applyPatch(style EffectiveStyle, p Patch) EffectiveStyle {
	if c := p.Colors; c != nil {
		setColor(&style.Colors.Primary, c.Primary)
		setColor(&style.Colors.Secondary, c.Secondary)
		setColor(&style.Colors.Accent, c.Accent)
		setColor(&style.Colors.Text, c.Text)
		setColor(&style.Colors.Background, c.Background)
		setColor(&style.Colors.Border, c.Border)
	}
	if t := p.Typography; t != nil {
		setFont(&style.Typography.FontFamily, t.FontFamily)
		setFont(&style.Typography.HeadingFontFamily, t.HeadingFontFamily)
		setPositive(&style.Typography.NameSize, t.NameSize)
		setPositive(&style.Typography.HeadingSize, t.HeadingSize)
		setPositive(&style.Typography.BodySize, t.BodySize)
		setPositive(&style.Typography.SmallSize, t.SmallSize)
		setPositive(&style.Typography.LineHeight, t.LineHeight)
	}
	if l := p.Layout; l != nil {
		setNonNegative(&style.Layout.SectionGap, l.SectionGap)
		setNonNegative(&style.Layout.ItemGap, l.ItemGap)
		setNonNegative(&style.Layout.ContentPadding, l.ContentPadding)
	}
	if s := p.Style; s != nil {
		if s.UseIcons != nil {
			style.Style.UseIcons = *s.UseIcons
		}
		if s.PillSkills != nil {
			style.Style.PillSkills = *s.PillSkills
		}
		if s.Divider != nil && validDivider(*s.Divider) {
			style.Style.Divider = *s.Divider
		}
		if s.HeadingCase != nil && validHeadingCase(*s.HeadingCase) {
			style.Style.HeadingCase = *s.HeadingCase
		}
	}
	return style
}

// 非法的颜色或字体值会被当作未提供，避免把用户输入原样写进内联样式。
func setColor(dst *string, v *string) {
	if v == nil {
		return
	}
	value := strings.TrimSpace(*v)
	if colorPattern.MatchString(value) {
		*dst = value
	}
}

func setFont(dst *string, v *string) {
	if v == nil {
		return
	}
	value := strings.TrimSpace(*v)
	if fontPattern.MatchString(value) {
		*dst = value
	}
}

func setPositive(dst *float64, v *float64) {
	if v != nil && *v > 0 {
		*dst = *v
	}
}

func setNonNegative(dst *float64, v *float64) {
	if v != nil && *v >= 0 {
		*dst = *v
	}
}

func validDivider(d DividerStyle) bool {
	switch d {
	case DividerNone, DividerSolid, DividerDashed, DividerDouble:
		return true
	}
	return false
}

func validHeadingCase(h HeadingCase) bool {
	switch h {
	case HeadingCaseNone, HeadingCaseUpper, HeadingCaseLower, HeadingCaseCapitalize:
		return true
	}
	return false
}

// withDefaults 用内置默认主题回填零值字段，保证每个字段组都有值。
func withDefaults(t Theme) Theme {
	d := Default()
	fillString(&t.Colors.Primary, d.Colors.Primary)
	fillString(&t.Colors.Secondary, d.Colors.Secondary)
	fillString(&t.Colors.Accent, d.Colors.Accent)
	fillString(&t.Colors.Text, d.Colors.Text)
	fillString(&t.Colors.Background, d.Colors.Background)
	fillString(&t.Colors.Border, d.Colors.Border)

	fillString(&t.Typography.FontFamily, d.Typography.FontFamily)
	fillString(&t.Typography.HeadingFontFamily, t.Typography.FontFamily)
	fillFloat(&t.Typography.NameSize, d.Typography.NameSize)
	fillFloat(&t.Typography.HeadingSize, d.Typography.HeadingSize)
	fillFloat(&t.Typography.BodySize, d.Typography.BodySize)
	fillFloat(&t.Typography.SmallSize, d.Typography.SmallSize)
	fillFloat(&t.Typography.LineHeight, d.Typography.LineHeight)

	fillFloat(&t.Layout.SectionGap, d.Layout.SectionGap)
	fillFloat(&t.Layout.ItemGap, d.Layout.ItemGap)

	if !validDivider(t.Style.Divider) {
		t.Style.Divider = d.Style.Divider
	}
	if !validHeadingCase(t.Style.HeadingCase) {
		t.Style.HeadingCase = d.Style.HeadingCase
	}
	if t.ID == "" {
		t.ID = d.ID
	}
	return t
}

func fillString(dst *string, fallback string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = fallback
	}
}

func fillFloat(dst *float64, fallback float64) {
	if *dst <= 0 {
		*dst = fallback
	}
}
