package cv

import (
	"cmp"
	"slices"
	"strings"
)

// SectionType 枚举 Composer 能够渲染的全部区块。
// 枚举顺序即注册顺序，同时作为 (column, order) 冲突时的决胜顺序。
type SectionType string

const (
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionPublications   SectionType = "publications"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionAwards         SectionType = "awards"
	SectionLanguages      SectionType = "languages"
	SectionReferences     SectionType = "references"
	SectionCustom         SectionType = "customSections"
)

var sectionTypes = []SectionType{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionPublications,
	SectionProjects,
	SectionCertifications,
	SectionAwards,
	SectionLanguages,
	SectionReferences,
	SectionCustom,
}

var sectionTitles = map[SectionType]string{
	SectionSummary:        "Summary",
	SectionExperience:     "Experience",
	SectionEducation:      "Education",
	SectionSkills:         "Skills",
	SectionPublications:   "Publications",
	SectionProjects:       "Projects",
	SectionCertifications: "Certifications",
	SectionAwards:         "Awards & Honors",
	SectionLanguages:      "Languages",
	SectionReferences:     "References",
	SectionCustom:         "Additional Information",
}

// SectionTypes 按注册顺序返回全部区块类型的副本。
func SectionTypes() []SectionType {
	return slices.Clone(sectionTypes)
}

// Valid 判断区块类型是否属于已知枚举。
func (t SectionType) Valid() bool {
	return slices.Contains(sectionTypes, t)
}

// Rank 返回区块的注册序号，未知类型返回 -1。
func (t SectionType) Rank() int {
	return slices.Index(sectionTypes, t)
}

// Title 返回区块的默认标题。
func (t SectionType) Title() string {
	if title, ok := sectionTitles[t]; ok {
		return title
	}
	return string(t)
}

// ParseSectionType 解析区块类型，大小写不敏感。
func ParseSectionType(s string) (SectionType, bool) {
	s = strings.TrimSpace(s)
	for _, t := range sectionTypes {
		if strings.EqualFold(string(t), s) {
			return t, true
		}
	}
	return "", false
}

// Count 返回文档中该区块的有效条目数；0 表示区块应被省略。
func (d *Document) Count(t SectionType) int {
	if d == nil {
		return 0
	}
	switch t {
	case SectionSummary:
		if strings.TrimSpace(d.PersonalInfo.Summary) == "" {
			return 0
		}
		return 1
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionSkills:
		return len(d.Skills)
	case SectionPublications:
		return len(d.Publications)
	case SectionProjects:
		return len(d.Projects)
	case SectionCertifications:
		return len(d.Certifications)
	case SectionAwards:
		return len(d.Awards)
	case SectionLanguages:
		return len(d.Languages)
	case SectionReferences:
		return len(d.References)
	case SectionCustom:
		return len(d.CustomSections)
	default:
		return 0
	}
}

// SortByOrder 按 order 稳定排序并返回新切片，原切片保持不变。
func SortByOrder[T any](items []T, order func(T) int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(order(a), order(b))
	})
	return out
}

// Sorted 返回一份所有集合均已按 order 稳定排序的文档副本。
func (d *Document) Sorted() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Experience = SortByOrder(d.Experience, func(v Experience) int { return v.Order })
	out.Education = SortByOrder(d.Education, func(v Education) int { return v.Order })
	out.Skills = SortByOrder(d.Skills, func(v Skill) int { return v.Order })
	out.Publications = SortByOrder(d.Publications, func(v Publication) int { return v.Order })
	out.Projects = SortByOrder(d.Projects, func(v Project) int { return v.Order })
	out.Certifications = SortByOrder(d.Certifications, func(v Certification) int { return v.Order })
	out.Awards = SortByOrder(d.Awards, func(v Award) int { return v.Order })
	out.Languages = SortByOrder(d.Languages, func(v Language) int { return v.Order })
	out.References = SortByOrder(d.References, func(v Reference) int { return v.Order })
	out.CustomSections = SortByOrder(d.CustomSections, func(v CustomSection) int { return v.Order })
	out.SocialLinks = SortByOrder(d.SocialLinks, func(v SocialLink) int { return v.Order })
	out.ContactInfo = SortByOrder(d.ContactInfo, func(v ContactInfo) int { return v.Order })
	return &out
}
