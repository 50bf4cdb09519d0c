package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"cvcraft/internal/compose"
	"cvcraft/internal/layout"
	"cvcraft/internal/theme"
)

// DefaultFontBaseURL 是 Google Fonts CSS2 接口地址。
const DefaultFontBaseURL = "https://fonts.googleapis.com/css2"

var telPattern = regexp.MustCompile(`^tel:[0-9+()\-. ]{3,32}$`)

var contactIcons = map[string]string{
	"email":    "✉",
	"phone":    "☎",
	"location": "⌂",
	"website":  "⌘",
}

// Renderer 把排好栏的区块渲染为 HTML，同一输入总是得到相同输出。
type Renderer struct {
	assets      AssetResolver
	logger      *slog.Logger
	fontBaseURL string
	tmpl        *template.Template
}

// NewRenderer 创建渲染器。assets 可以为 nil，此时所有照片都按"无照片"处理；
// fontBaseURL 为空时不输出字体链接。
func NewRenderer(assets AssetResolver, logger *slog.Logger, fontBaseURL string) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl := template.Must(template.New("cv").Funcs(template.FuncMap{
		"join":     strings.Join,
		"richText": richText,
	}).Parse(documentTemplate))

	return &Renderer{
		assets:      assets,
		logger:      logger,
		fontBaseURL: strings.TrimRight(fontBaseURL, "?"),
		tmpl:        tmpl,
	}
}

// Render 生成完整的 HTML 文档。照片解析失败不会中断渲染，只会记录警告。
func (r *Renderer) Render(ctx context.Context, in Input) (Output, error) {
	if in.Styles == nil {
		return Output{}, errors.New("render: style resolver is required")
	}
	if in.Frame.WidthMM <= 0 || in.Frame.HeightMM <= 0 {
		in.Frame = A4()
	}

	var out Output
	global := in.Styles.Global()
	scale := layout.SpacingToScale(in.Layout.Spacing)

	photoSrc := r.resolvePhoto(ctx, in, &out)

	view := documentView{
		Title:      in.Title,
		FontLinks:  r.fontLinks(global, in.Styles, in.Columns),
		PageSize:   template.CSS(fmt.Sprintf("%smm %smm", num(in.Frame.WidthMM), num(in.Frame.HeightMM))),
		PageMargin: template.CSS(frameMargin(in.Frame)),
		PageWidth:  template.CSS(num(in.Frame.WidthMM) + "mm"),
		PageHeight: template.CSS(num(in.Frame.HeightMM) + "mm"),
		PageCSS: css(
			"background-color", global.Colors.Background,
			"color", global.Colors.Text,
			"font-family", fontStack(global.Typography.FontFamily),
			"font-size", pt(global.Typography.BodySize),
			"line-height", num(global.Typography.LineHeight),
		),
		Header:     headerView(in, global, photoSrc, scale),
		ColumnsCSS: css("gap", pt(global.Layout.SectionGap*scale)),
	}

	for i, col := range in.Columns {
		fraction := in.Layout.ColumnFraction(i)
		column := columnView{
			CSS: css(
				"flex", "0 1 "+percent(fraction),
				"max-width", percent(fraction),
				"min-width", "0",
			),
		}
		for _, s := range col {
			column.Sections = append(column.Sections, sectionView(s, in.Styles.Resolve(s.ID), in.Layout, fraction, scale))
		}
		view.Columns = append(view.Columns, column)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return Output{}, fmt.Errorf("execute cv template: %w", err)
	}
	out.Markup = buf.String()
	return out, nil
}

// resolvePhoto 返回照片的 src；布局不展示照片、没有照片或解析失败时返回空值。
func (r *Renderer) resolvePhoto(ctx context.Context, in Input, out *Output) any {
	ref := strings.TrimSpace(in.Header.PhotoRef)
	if ref == "" || in.Layout.PhotoPosition == layout.PhotoNone || in.Layout.PhotoPosition == "" {
		return nil
	}

	warn := func(err error) any {
		r.logger.Warn("photo unavailable, rendering without it",
			slog.String("photo_ref", ref),
			slog.Any("error", err),
		)
		out.Warnings = append(out.Warnings, fmt.Sprintf("photo %q could not be resolved and was omitted", ref))
		return nil
	}

	if r.assets == nil {
		return warn(ErrAssetUnavailable)
	}
	asset, err := r.assets.Resolve(ctx, ref)
	if err != nil {
		return warn(err)
	}
	if asset == nil || len(asset.Data) == 0 {
		return warn(ErrAssetUnavailable)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(asset.ContentType, ";", 2)[0]))
	if !strings.HasPrefix(contentType, "image/") {
		return warn(fmt.Errorf("%w: content type %q", ErrAssetUnavailable, asset.ContentType))
	}

	if in.PhotoMode == PhotoBundle {
		path := "assets/photo" + imageExtension(contentType)
		out.Assets = append(out.Assets, AssetRef{
			Ref:         ref,
			Path:        path,
			ContentType: contentType,
			Data:        asset.Data,
		})
		return path
	}

	out.Assets = append(out.Assets, AssetRef{Ref: ref, ContentType: contentType})
	// data URI 由解析器返回的字节构造，content type 已限定为图片。
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(asset.Data))
}

// fontLinks 固定返回两条样式表链接：正文字体与标题字体。
// 区块覆盖引入的字体并入对应角色的链接，每条链接按出现顺序列出去重后的字体族。
func (r *Renderer) fontLinks(global theme.EffectiveStyle, styles StyleResolver, columns compose.Columns) []string {
	if r.fontBaseURL == "" {
		return nil
	}
	body := []string{global.Typography.FontFamily}
	heading := []string{global.Typography.HeadingFontFamily}
	for _, col := range columns {
		for _, s := range col {
			style := styles.Resolve(s.ID)
			body = append(body, style.Typography.FontFamily)
			heading = append(heading, style.Typography.HeadingFontFamily)
		}
	}
	return []string{r.fontLink(body), r.fontLink(heading)}
}

func (r *Renderer) fontLink(families []string) string {
	q := url.Values{}
	seen := make(map[string]bool, len(families))
	for _, f := range families {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		q.Add("family", f+":wght@400;600;700")
	}
	q.Set("display", "swap")
	return r.fontBaseURL + "?" + q.Encode()
}

type documentView struct {
	Title      string
	FontLinks  []string
	PageSize   template.CSS
	PageMargin template.CSS
	PageWidth  template.CSS
	PageHeight template.CSS
	PageCSS    template.CSS
	Header     header
	ColumnsCSS template.CSS
	Columns    []columnView
}

type header struct {
	Style         layout.HeaderStyle
	PhotoPosition layout.PhotoPosition
	PhotoSrc      any
	Name          string
	Headline      string
	CSS           template.CSS
	NameCSS       template.CSS
	HeadlineCSS   template.CSS
	ContactCSS    template.CSS
	Contacts      []contact
	Links         []LinkItem
}

type contact struct {
	Icon string
	Text string
	Href any
}

type columnView struct {
	CSS      template.CSS
	Sections []section
}

type section struct {
	ID              string
	Title           string
	Pills           bool
	CSS             template.CSS
	HeadingCSS      template.CSS
	EntryCSS        template.CSS
	EntryHeadingCSS template.CSS
	SubCSS          template.CSS
	MetaCSS         template.CSS
	TagCSS          template.CSS
	LinkCSS         template.CSS
	Entries         []compose.Entry
}

func headerView(in Input, global theme.EffectiveStyle, photoSrc any, scale float64) header {
	style := in.Layout.HeaderStyle
	if style == "" {
		style = layout.HeaderTraditional
	}
	position := in.Layout.PhotoPosition
	if position == "" {
		position = layout.PhotoNone
	}

	h := header{
		Style:         style,
		PhotoPosition: position,
		PhotoSrc:      photoSrc,
		Name:          in.Header.FullName,
		Headline:      in.Header.Headline,
		NameCSS: css(
			"margin", "0",
			"color", global.Colors.Primary,
			"font-family", fontStack(global.Typography.HeadingFontFamily),
			"font-size", pt(global.Typography.NameSize),
		),
		HeadlineCSS: css(
			"margin", "2pt 0 0 0",
			"color", global.Colors.Secondary,
			"font-size", pt(global.Typography.HeadingSize),
		),
		ContactCSS: css(
			"color", global.Colors.Secondary,
			"font-size", pt(global.Typography.SmallSize),
		),
		Links: in.Header.Links,
	}

	gap := pt(global.Layout.SectionGap * scale)
	switch style {
	case layout.HeaderModern:
		h.CSS = css(
			"background-color", global.Colors.Primary,
			"color", global.Colors.Background,
			"padding", pt(max(global.Layout.ContentPadding, 8)*scale),
			"margin-bottom", gap,
		)
		h.NameCSS = css(
			"margin", "0",
			"color", global.Colors.Background,
			"font-family", fontStack(global.Typography.HeadingFontFamily),
			"font-size", pt(global.Typography.NameSize),
		)
		h.HeadlineCSS = css("margin", "2pt 0 0 0", "color", global.Colors.Background, "font-size", pt(global.Typography.HeadingSize))
		h.ContactCSS = css("color", global.Colors.Background, "font-size", pt(global.Typography.SmallSize))
	case layout.HeaderMinimal:
		h.CSS = css("margin-bottom", gap)
	case layout.HeaderSplit:
		h.CSS = css("justify-content", "space-between", "margin-bottom", gap)
	default:
		h.CSS = css(
			"border-bottom", "2px solid "+global.Colors.Primary,
			"padding-bottom", pt(global.Layout.ItemGap*scale),
			"margin-bottom", gap,
		)
	}

	for _, c := range in.Header.Contacts {
		item := contact{Text: c.Value}
		if global.Style.UseIcons {
			item.Icon = contactIcons[c.Kind]
		}
		switch {
		case c.Href == "":
		case strings.HasPrefix(c.Href, "tel:"):
			if telPattern.MatchString(c.Href) {
				item.Href = template.URL(c.Href)
			}
		default:
			item.Href = c.Href
		}
		h.Contacts = append(h.Contacts, item)
	}
	return h
}

func sectionView(s compose.SectionInstance, style theme.EffectiveStyle, l layout.Layout, columnFraction, scale float64) section {
	width := 1.0
	if columnFraction > 0 {
		width = min(1, s.WidthFraction/columnFraction)
	}

	props := []string{
		"width", percent(width),
		"margin-bottom", pt(style.Layout.SectionGap * scale),
		"color", style.Colors.Text,
		"font-family", fontStack(style.Typography.FontFamily),
		"font-size", pt(style.Typography.BodySize),
		"line-height", num(style.Typography.LineHeight),
	}
	if style.Layout.ContentPadding > 0 {
		props = append(props, "padding", pt(style.Layout.ContentPadding*scale))
	}
	if l.PageBreak == layout.PageBreakAvoidInside {
		props = append(props, "break-inside", "avoid", "page-break-inside", "avoid")
	}

	heading := []string{
		"margin", "0 0 " + pt(style.Layout.ItemGap*scale) + " 0",
		"color", style.Colors.Primary,
		"font-family", fontStack(style.Typography.HeadingFontFamily),
		"font-size", pt(style.Typography.HeadingSize),
		"text-transform", headingTransform(style.Style.HeadingCase),
	}
	switch style.Style.Divider {
	case theme.DividerSolid, theme.DividerDashed:
		heading = append(heading, "border-bottom", "1px "+string(style.Style.Divider)+" "+style.Colors.Border, "padding-bottom", "2pt")
	case theme.DividerDouble:
		heading = append(heading, "border-bottom", "3px double "+style.Colors.Border, "padding-bottom", "2pt")
	}

	return section{
		ID:              s.ID,
		Title:           s.Title,
		Pills:           style.Style.PillSkills,
		CSS:             css(props...),
		HeadingCSS:      css(heading...),
		EntryCSS:        css("margin-bottom", pt(style.Layout.ItemGap*scale)),
		EntryHeadingCSS: css("color", style.Colors.Text),
		SubCSS:          css("color", style.Colors.Secondary),
		MetaCSS:         css("color", style.Colors.Secondary, "font-size", pt(style.Typography.SmallSize)),
		TagCSS: css(
			"background-color", style.Colors.Border,
			"color", style.Colors.Text,
			"border-radius", "999px",
			"padding", "1pt 6pt",
			"font-size", pt(style.Typography.SmallSize),
		),
		LinkCSS: css("color", style.Colors.Accent, "font-size", pt(style.Typography.SmallSize)),
		Entries: s.Entries,
	}
}

func headingTransform(h theme.HeadingCase) string {
	switch h {
	case theme.HeadingCaseUpper, theme.HeadingCaseLower, theme.HeadingCaseCapitalize:
		return string(h)
	default:
		return "none"
	}
}

// css 把成对的属性名与值拼成内联样式，跳过空值。
// 取值来自合并器，颜色与字体已在合并时做过白名单校验。
func css(pairs ...string) template.CSS {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(pairs[i])
		b.WriteString(": ")
		b.WriteString(pairs[i+1])
		b.WriteString(";")
	}
	return template.CSS(b.String())
}

func fontStack(family string) string {
	family = strings.TrimSpace(family)
	if family == "" {
		return "sans-serif"
	}
	return "'" + family + "', sans-serif"
}

func frameMargin(f PageFrame) string {
	return fmt.Sprintf("%smm %smm %smm %smm",
		num(f.MarginTopMM), num(f.MarginRightMM), num(f.MarginBottomMM), num(f.MarginLeftMM))
}

func pt(v float64) string {
	return num(v) + "pt"
}

func percent(fraction float64) string {
	return num(fraction*100) + "%"
}

// num 保留至多两位小数，去掉多余的零。
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".img"
	}
}
