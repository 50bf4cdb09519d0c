package layout

import (
	"maps"
	"slices"

	"cvcraft/internal/cv"
)

const DefaultID = "classic-single"

func single(order ...cv.SectionType) map[cv.SectionType]Placement {
	placements := make(map[cv.SectionType]Placement, len(order))
	for i, t := range order {
		placements[t] = Placement{Column: 0, Width: WidthFull, Order: i}
	}
	return placements
}

var catalog = []Layout{
	{
		ID:            DefaultID,
		Name:          "Classic Single Column",
		Description:   "Every section stacked in one column under a traditional header.",
		Columns:       1,
		ColumnRatios:  []int{1},
		HeaderStyle:   HeaderTraditional,
		PhotoPosition: PhotoRight,
		Spacing:       SpacingNormal,
		PageBreak:     PageBreakAvoidInside,
		Placements: single(
			cv.SectionSummary,
			cv.SectionExperience,
			cv.SectionEducation,
			cv.SectionPublications,
			cv.SectionProjects,
			cv.SectionSkills,
			cv.SectionCertifications,
			cv.SectionAwards,
			cv.SectionLanguages,
			cv.SectionReferences,
			cv.SectionCustom,
		),
	},
	{
		ID:            "modern-sidebar",
		Name:          "Modern Sidebar",
		Description:   "Narrow left sidebar for skills and languages, main column for history.",
		Columns:       2,
		ColumnRatios:  []int{3, 7},
		HeaderStyle:   HeaderModern,
		PhotoPosition: PhotoLeft,
		Spacing:       SpacingNormal,
		PageBreak:     PageBreakAuto,
		Placements: map[cv.SectionType]Placement{
			cv.SectionSkills:         {Column: 0, Width: WidthSidebar, Order: 0},
			cv.SectionLanguages:      {Column: 0, Width: WidthSidebar, Order: 1},
			cv.SectionCertifications: {Column: 0, Width: WidthSidebar, Order: 2},
			cv.SectionAwards:         {Column: 0, Width: WidthSidebar, Order: 3},
			cv.SectionReferences:     {Column: 0, Width: WidthSidebar, Order: 4},
			cv.SectionSummary:        {Column: 1, Width: WidthMain, Order: 0},
			cv.SectionExperience:     {Column: 1, Width: WidthMain, Order: 1},
			cv.SectionEducation:      {Column: 1, Width: WidthMain, Order: 2},
			cv.SectionPublications:   {Column: 1, Width: WidthMain, Order: 3},
			cv.SectionProjects:       {Column: 1, Width: WidthMain, Order: 4},
			cv.SectionCustom:         {Column: 1, Width: WidthMain, Order: 5},
		},
	},
	{
		ID:            "two-column-balanced",
		Name:          "Two Column Balanced",
		Description:   "Two equal columns under a split header.",
		Columns:       2,
		ColumnRatios:  []int{1, 1},
		HeaderStyle:   HeaderSplit,
		PhotoPosition: PhotoRight,
		Spacing:       SpacingTight,
		PageBreak:     PageBreakAuto,
		Placements: map[cv.SectionType]Placement{
			cv.SectionSummary:        {Column: 0, Width: WidthHalf, Order: 0},
			cv.SectionExperience:     {Column: 0, Width: WidthHalf, Order: 1},
			cv.SectionProjects:       {Column: 0, Width: WidthHalf, Order: 2},
			cv.SectionReferences:     {Column: 0, Width: WidthHalf, Order: 3},
			cv.SectionEducation:      {Column: 1, Width: WidthHalf, Order: 0},
			cv.SectionSkills:         {Column: 1, Width: WidthHalf, Order: 1},
			cv.SectionPublications:   {Column: 1, Width: WidthHalf, Order: 2},
			cv.SectionCertifications: {Column: 1, Width: WidthHalf, Order: 3},
			cv.SectionAwards:         {Column: 1, Width: WidthHalf, Order: 4},
			cv.SectionLanguages:      {Column: 1, Width: WidthHalf, Order: 5},
		},
	},
	{
		ID:            "academic-detailed",
		Name:          "Academic Detailed",
		Description:   "Education and publications first, centered header, relaxed spacing.",
		Columns:       1,
		ColumnRatios:  []int{1},
		HeaderStyle:   HeaderCentered,
		PhotoPosition: PhotoNone,
		Spacing:       SpacingRelaxed,
		PageBreak:     PageBreakAvoidInside,
		Placements: single(
			cv.SectionSummary,
			cv.SectionEducation,
			cv.SectionPublications,
			cv.SectionExperience,
			cv.SectionProjects,
			cv.SectionAwards,
			cv.SectionCertifications,
			cv.SectionSkills,
			cv.SectionLanguages,
			cv.SectionCustom,
			cv.SectionReferences,
		),
	},
	{
		ID:            "compact-minimal",
		Name:          "Compact Minimal",
		Description:   "Tight single column without references or custom sections.",
		Columns:       1,
		ColumnRatios:  []int{1},
		HeaderStyle:   HeaderMinimal,
		PhotoPosition: PhotoNone,
		Spacing:       SpacingTight,
		PageBreak:     PageBreakAuto,
		Placements: single(
			cv.SectionSummary,
			cv.SectionExperience,
			cv.SectionEducation,
			cv.SectionSkills,
			cv.SectionPublications,
			cv.SectionProjects,
			cv.SectionCertifications,
			cv.SectionAwards,
			cv.SectionLanguages,
		),
	},
	{
		ID:            "executive-split",
		Name:          "Executive Split",
		Description:   "Wide main column with a right-hand sidebar and a modern header.",
		Columns:       2,
		ColumnRatios:  []int{2, 1},
		HeaderStyle:   HeaderModern,
		PhotoPosition: PhotoRight,
		Spacing:       SpacingRelaxed,
		PageBreak:     PageBreakAvoidInside,
		Placements: map[cv.SectionType]Placement{
			cv.SectionSummary:        {Column: 0, Width: WidthTwoThirds, Order: 0},
			cv.SectionExperience:     {Column: 0, Width: WidthTwoThirds, Order: 1},
			cv.SectionProjects:       {Column: 0, Width: WidthTwoThirds, Order: 2},
			cv.SectionPublications:   {Column: 0, Width: WidthTwoThirds, Order: 3},
			cv.SectionCustom:         {Column: 0, Width: WidthTwoThirds, Order: 4},
			cv.SectionEducation:      {Column: 1, Width: WidthThird, Order: 0},
			cv.SectionSkills:         {Column: 1, Width: WidthThird, Order: 1},
			cv.SectionLanguages:      {Column: 1, Width: WidthThird, Order: 2},
			cv.SectionCertifications: {Column: 1, Width: WidthThird, Order: 3},
			cv.SectionAwards:         {Column: 1, Width: WidthThird, Order: 4},
			cv.SectionReferences:     {Column: 1, Width: WidthThird, Order: 5},
		},
	},
}

var byID = func() map[string]int {
	index := make(map[string]int, len(catalog))
	for i, l := range catalog {
		index[l.ID] = i
	}
	return index
}()

// clone 复制布局中的切片与映射，调用方修改返回值不会影响目录。
func clone(l Layout) Layout {
	l.ColumnRatios = slices.Clone(l.ColumnRatios)
	l.Placements = maps.Clone(l.Placements)
	return l
}

// Default 返回默认布局。
func Default() Layout {
	return clone(catalog[0])
}

// ByID 按 id 查找布局；未知或空 id 回退到默认布局。
func ByID(id string) Layout {
	if i, ok := byID[id]; ok {
		return clone(catalog[i])
	}
	return Default()
}

// Lookup 与 ByID 相同，但额外报告 id 是否命中目录。
func Lookup(id string) (Layout, bool) {
	i, ok := byID[id]
	if !ok {
		return Default(), false
	}
	return clone(catalog[i]), true
}

// All 按注册顺序返回全部布局的副本。
func All() []Layout {
	out := make([]Layout, 0, len(catalog))
	for _, l := range catalog {
		out = append(out, clone(l))
	}
	return out
}
