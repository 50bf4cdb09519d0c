// Package render 把排好栏的区块与有效样式渲染为自包含的 HTML 文档。
package render

import (
	"context"
	"errors"

	"cvcraft/internal/compose"
	"cvcraft/internal/cv"
	"cvcraft/internal/layout"
	"cvcraft/internal/theme"
)

// ErrAssetUnavailable 表示资源无法解析（不存在、无法访问或类型不符）。
var ErrAssetUnavailable = errors.New("asset unavailable")

// PhotoMode 决定照片以何种形式写入标记。
type PhotoMode int

const (
	// PhotoEmbed 内联为 data URI，用于 PDF 与预览。
	PhotoEmbed PhotoMode = iota
	// PhotoBundle 引用归档内的 assets/ 相对路径，字节随 Output.Assets 返回。
	PhotoBundle
)

// PageFrame 是导出目标的物理页面尺寸与页边距（毫米），与主题无关。
type PageFrame struct {
	Name           string
	WidthMM        float64
	HeightMM       float64
	MarginTopMM    float64
	MarginRightMM  float64
	MarginBottomMM float64
	MarginLeftMM   float64
}

// A4 返回默认页面框架。
func A4() PageFrame {
	return PageFrame{
		Name:           "A4",
		WidthMM:        210,
		HeightMM:       297,
		MarginTopMM:    18,
		MarginRightMM:  16,
		MarginBottomMM: 18,
		MarginLeftMM:   16,
	}
}

// StyleResolver 提供文档级与区块级的有效样式，*theme.Merger 实现了该接口。
type StyleResolver interface {
	Global() theme.EffectiveStyle
	Resolve(sectionID string) theme.EffectiveStyle
}

// Asset 是资源解析器返回的二进制内容。
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// AssetResolver 根据照片引用（绝对 URL 或存储中的相对路径）取回资源。
// 无法取回时返回 ErrAssetUnavailable 或其他错误，渲染器会降级为"无照片"。
type AssetResolver interface {
	Resolve(ctx context.Context, ref string) (*Asset, error)
}

// AssetRef 是渲染结果中引用到的资源。
type AssetRef struct {
	Ref         string
	Path        string
	ContentType string
	Data        []byte
}

// ContactItem 是页眉中的一条联系方式。
type ContactItem struct {
	Kind  string
	Value string
	Href  string
}

// LinkItem 是页眉中的社交链接。
type LinkItem struct {
	Label string
	URL   string
}

// HeaderData 是页眉区域所需的数据。
type HeaderData struct {
	FullName string
	Headline string
	PhotoRef string
	Contacts []ContactItem
	Links    []LinkItem
}

// Input 汇总一次渲染所需的全部输入。
type Input struct {
	Title     string
	Columns   compose.Columns
	Styles    StyleResolver
	Header    HeaderData
	Layout    layout.Layout
	Frame     PageFrame
	PhotoMode PhotoMode
}

// Output 是渲染结果：完整标记与引用的资源。
type Output struct {
	Markup   string
	Assets   []AssetRef
	Warnings []string
}

// HeaderFromDocument 从 CV 文档提取页眉数据，联系方式按固定顺序排列后追加自定义联系方式。
func HeaderFromDocument(doc *cv.Document) HeaderData {
	if doc == nil {
		return HeaderData{}
	}
	sorted := doc.Sorted()
	p := sorted.PersonalInfo
	header := HeaderData{
		FullName: p.FullName,
		Headline: p.Headline,
		PhotoRef: p.PhotoRef,
	}

	add := func(kind, value, href string) {
		if value == "" {
			return
		}
		header.Contacts = append(header.Contacts, ContactItem{Kind: kind, Value: value, Href: href})
	}
	add("email", p.Email, mailto(p.Email))
	add("phone", p.Phone, tel(p.Phone))
	add("location", p.Location, "")
	add("website", p.Website, p.Website)
	for _, c := range sorted.ContactInfo {
		value := c.Value
		if c.Label != "" {
			value = c.Label + ": " + c.Value
		}
		href := ""
		switch c.Kind {
		case "email":
			href = mailto(c.Value)
		case "phone":
			href = tel(c.Value)
		case "website":
			href = c.Value
		}
		add(c.Kind, value, href)
	}

	for _, l := range sorted.SocialLinks {
		if l.URL == "" {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.Platform
		}
		if label == "" {
			label = l.URL
		}
		header.Links = append(header.Links, LinkItem{Label: label, URL: l.URL})
	}
	return header
}

func mailto(email string) string {
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

func tel(phone string) string {
	if phone == "" {
		return ""
	}
	return "tel:" + phone
}
