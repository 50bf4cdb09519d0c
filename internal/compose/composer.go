// Package compose 根据布局把 CV 文档的区块分配到各栏，并生成统一的展示条目。
package compose

import (
	"cmp"
	"slices"
	"strings"

	"cvcraft/internal/cv"
	"cvcraft/internal/layout"
)

// Entry 是区块中一条记录的展示形态，与具体实体类型无关。
type Entry struct {
	ID         string
	Heading    string
	Subheading string
	Meta       string
	Period     string
	Location   string
	Body       string
	Bullets    []string
	Link       string
	Tags       []string
}

// SectionInstance 是放置到某一栏中的区块。
type SectionInstance struct {
	Type          cv.SectionType
	ID            string
	Title         string
	Placement     layout.Placement
	WidthFraction float64
	Entries       []Entry
}

// Columns 按栏序号保存区块，长度始终等于布局的分栏数。
type Columns [][]SectionInstance

// Len 返回所有栏中的区块总数。
func (c Columns) Len() int {
	n := 0
	for _, col := range c {
		n += len(col)
	}
	return n
}

// Has 判断某个区块类型是否出现在任意一栏中。
func (c Columns) Has(t cv.SectionType) bool {
	for _, col := range c {
		for _, s := range col {
			if s.Type == t {
				return true
			}
		}
	}
	return false
}

// Sections 遍历已知区块类型，跳过没有内容或布局中没有放置信息的区块，
// 并在每栏内按 placement.order 稳定排序；order 相同时保持注册顺序。
func Sections(doc *cv.Document, l layout.Layout) Columns {
	columns := make(Columns, l.ColumnCount())
	if doc == nil {
		return columns
	}
	sorted := doc.Sorted()

	for _, st := range cv.SectionTypes() {
		if sorted.Count(st) == 0 {
			continue
		}
		placement, ok := l.Placement(st)
		if !ok {
			continue
		}
		entries := buildEntries(sorted, st)
		if len(entries) == 0 {
			continue
		}

		col := min(max(placement.Column, 0), len(columns)-1)
		columns[col] = append(columns[col], SectionInstance{
			Type:          st,
			ID:            string(st),
			Title:         st.Title(),
			Placement:     placement,
			WidthFraction: layout.WidthToSizeClass(placement.Width, l.ColumnCount()),
			Entries:       entries,
		})
	}

	for i := range columns {
		slices.SortStableFunc(columns[i], func(a, b SectionInstance) int {
			return cmp.Compare(a.Placement.Order, b.Placement.Order)
		})
	}
	return columns
}

func buildEntries(doc *cv.Document, st cv.SectionType) []Entry {
	switch st {
	case cv.SectionSummary:
		return []Entry{{ID: "summary", Body: strings.TrimSpace(doc.PersonalInfo.Summary)}}
	case cv.SectionExperience:
		return mapEntries(doc.Experience, experienceEntry)
	case cv.SectionEducation:
		return mapEntries(doc.Education, educationEntry)
	case cv.SectionSkills:
		return skillEntries(doc.Skills)
	case cv.SectionPublications:
		return mapEntries(doc.Publications, publicationEntry)
	case cv.SectionProjects:
		return mapEntries(doc.Projects, projectEntry)
	case cv.SectionCertifications:
		return mapEntries(doc.Certifications, certificationEntry)
	case cv.SectionAwards:
		return mapEntries(doc.Awards, awardEntry)
	case cv.SectionLanguages:
		return mapEntries(doc.Languages, languageEntry)
	case cv.SectionReferences:
		return mapEntries(doc.References, referenceEntry)
	case cv.SectionCustom:
		return mapEntries(doc.CustomSections, customEntry)
	default:
		return nil
	}
}

func mapEntries[T any](items []T, fn func(T) Entry) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
