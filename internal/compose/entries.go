package compose

import (
	"fmt"
	"strings"
	"time"

	"cvcraft/internal/cv"
)

func experienceEntry(e cv.Experience) Entry {
	return Entry{
		ID:         e.ID,
		Heading:    e.Title,
		Subheading: e.Company,
		Location:   e.Location,
		Period:     FormatPeriod(e.StartDate, e.EndDate, e.Current),
		Body:       strings.TrimSpace(e.Description),
		Bullets:    nonEmpty(e.Highlights),
	}
}

func educationEntry(e cv.Education) Entry {
	degree := e.Degree
	if f := strings.TrimSpace(e.Field); f != "" {
		degree = joinNonEmpty(", ", degree, f)
	}
	meta := ""
	if g := strings.TrimSpace(e.GPA); g != "" {
		meta = "GPA: " + g
	}
	return Entry{
		ID:         e.ID,
		Heading:    degree,
		Subheading: e.Institution,
		Location:   e.Location,
		Meta:       meta,
		Period:     FormatPeriod(e.StartDate, e.EndDate, e.Current),
		Body:       strings.TrimSpace(e.Description),
	}
}

// skillEntries 按分类聚合技能，分类顺序取其首次出现的位置。
func skillEntries(skills []cv.Skill) []Entry {
	var out []Entry
	index := map[string]int{}
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		category := strings.TrimSpace(s.Category)
		i, ok := index[category]
		if !ok {
			i = len(out)
			index[category] = i
			out = append(out, Entry{ID: "skills-" + slug(category), Heading: category})
		}
		out[i].Tags = append(out[i].Tags, name)
	}
	return out
}

func publicationEntry(p cv.Publication) Entry {
	link := strings.TrimSpace(p.URL)
	if doi := strings.TrimSpace(p.DOI); doi != "" {
		link = "https://doi.org/" + strings.TrimPrefix(doi, "https://doi.org/")
	}
	meta := ""
	if p.Citations != nil && *p.Citations > 0 {
		meta = fmt.Sprintf("Cited by %d", *p.Citations)
	}
	return Entry{
		ID:         p.ID,
		Heading:    p.Title,
		Subheading: joinNonEmpty(". ", p.Authors, p.Venue),
		Period:     FormatDate(p.Date),
		Meta:       meta,
		Link:       link,
	}
}

func projectEntry(p cv.Project) Entry {
	return Entry{
		ID:         p.ID,
		Heading:    p.Name,
		Subheading: p.Role,
		Period:     FormatPeriod(p.StartDate, p.EndDate, p.Current),
		Body:       strings.TrimSpace(p.Description),
		Link:       strings.TrimSpace(p.URL),
		Tags:       nonEmpty(p.Technologies),
	}
}

func certificationEntry(c cv.Certification) Entry {
	meta := ""
	if id := strings.TrimSpace(c.CredentialID); id != "" {
		meta = "Credential ID " + id
	}
	period := FormatDate(c.IssueDate)
	if exp := FormatDate(c.ExpiryDate); exp != "" {
		period = joinNonEmpty(" – ", period, exp)
	}
	return Entry{
		ID:         c.ID,
		Heading:    c.Name,
		Subheading: c.Issuer,
		Period:     period,
		Meta:       meta,
		Link:       strings.TrimSpace(c.URL),
	}
}

func awardEntry(a cv.Award) Entry {
	return Entry{
		ID:         a.ID,
		Heading:    a.Title,
		Subheading: a.Issuer,
		Period:     FormatDate(a.Date),
		Body:       strings.TrimSpace(a.Description),
	}
}

func languageEntry(l cv.Language) Entry {
	return Entry{
		ID:      l.ID,
		Heading: l.Name,
		Meta:    l.Proficiency,
	}
}

func referenceEntry(r cv.Reference) Entry {
	return Entry{
		ID:         r.ID,
		Heading:    r.Name,
		Subheading: joinNonEmpty(", ", r.Position, r.Organization),
		Meta:       r.Relationship,
		Body:       joinNonEmpty(" · ", r.Email, r.Phone),
	}
}

func customEntry(c cv.CustomSection) Entry {
	return Entry{
		ID:      c.ID,
		Heading: c.Title,
		Body:    strings.TrimSpace(c.Content),
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

// FormatDate 把 ISO-8601 日期格式化为 "Jan 2006"；仅有年份时输出年份，无法解析时原样返回。
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == "2006" {
			return t.Format("2006")
		}
		return t.Format("Jan 2006")
	}
	return s
}

// FormatPeriod 生成 "Sep 2019 – Present" 形式的时间段。
func FormatPeriod(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = "Present"
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "" || to == from:
		return from
	default:
		return from + " – " + to
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func nonEmpty(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "general"
	}
	return strings.Join(strings.Fields(s), "-")
}
