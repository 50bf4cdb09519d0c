// Package layout 定义 CV 的结构布局（分栏、区块放置、页眉样式）及其内置目录。
package layout

import "cvcraft/internal/cv"

// Width 是抽象宽度标记，需结合分栏数换算为具体比例。
type Width string

const (
	WidthFull      Width = "full"
	WidthHalf      Width = "half"
	WidthThird     Width = "third"
	WidthTwoThirds Width = "two-thirds"
	WidthSidebar   Width = "sidebar"
	WidthMain      Width = "main"
)

type HeaderStyle string

const (
	HeaderTraditional HeaderStyle = "traditional"
	HeaderModern      HeaderStyle = "modern"
	HeaderMinimal     HeaderStyle = "minimal"
	HeaderSplit       HeaderStyle = "split"
	HeaderCentered    HeaderStyle = "centered"
)

type PhotoPosition string

const (
	PhotoLeft   PhotoPosition = "left"
	PhotoRight  PhotoPosition = "right"
	PhotoCenter PhotoPosition = "center"
	PhotoNone   PhotoPosition = "none"
)

type Spacing string

const (
	SpacingTight   Spacing = "tight"
	SpacingNormal  Spacing = "normal"
	SpacingRelaxed Spacing = "relaxed"
)

// PageBreak 控制打印时区块是否允许跨页断开。
type PageBreak string

const (
	PageBreakAuto        PageBreak = "auto"
	PageBreakAvoidInside PageBreak = "avoid-inside"
)

// Placement 描述区块在布局中的位置：所在栏、宽度等级与栏内顺序。
type Placement struct {
	Column int   `json:"column"`
	Width  Width `json:"width"`
	Order  int   `json:"order"`
}

// Layout 是不可变的具名结构描述。
type Layout struct {
	ID            string                       `json:"id"`
	Name          string                       `json:"name"`
	Description   string                       `json:"description"`
	Columns       int                          `json:"columns"`
	ColumnRatios  []int                        `json:"column_ratios"`
	HeaderStyle   HeaderStyle                  `json:"header_style"`
	PhotoPosition PhotoPosition                `json:"photo_position"`
	Spacing       Spacing                      `json:"spacing"`
	PageBreak     PageBreak                    `json:"page_break"`
	Placements    map[cv.SectionType]Placement `json:"placements"`
}

// ColumnCount 返回至少为 1 的分栏数。
func (l Layout) ColumnCount() int {
	if l.Columns < 1 {
		return 1
	}
	return l.Columns
}

// ColumnFraction 返回第 i 栏占内容宽度的比例。
// ColumnRatios 缺失或与分栏数不一致时按等分处理。
func (l Layout) ColumnFraction(i int) float64 {
	n := l.ColumnCount()
	if i < 0 || i >= n {
		return 0
	}
	if len(l.ColumnRatios) != n {
		return 1 / float64(n)
	}
	total := 0
	for _, r := range l.ColumnRatios {
		if r <= 0 {
			return 1 / float64(n)
		}
		total += r
	}
	return float64(l.ColumnRatios[i]) / float64(total)
}

// Placement 查找区块的放置信息。
func (l Layout) Placement(t cv.SectionType) (Placement, bool) {
	p, ok := l.Placements[t]
	return p, ok
}

// WidthToSizeClass 把抽象宽度换算为占内容宽度的比例。单栏布局中所有区块均占满整行。
func WidthToSizeClass(width Width, columns int) float64 {
	if columns <= 1 {
		return 1
	}
	switch width {
	case WidthHalf:
		return 0.5
	case WidthThird:
		return 1.0 / 3.0
	case WidthTwoThirds:
		return 2.0 / 3.0
	case WidthSidebar:
		return 0.3
	case WidthMain:
		return 0.7
	default:
		return 1
	}
}

// SpacingToScale 把间距档位换算为数值倍率。
func SpacingToScale(spacing Spacing) float64 {
	switch spacing {
	case SpacingTight:
		return 0.75
	case SpacingRelaxed:
		return 1.25
	default:
		return 1
	}
}
