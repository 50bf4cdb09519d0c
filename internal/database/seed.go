package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedDemo 在 id=1 的 CV 不存在时写入一份示例 CV，便于本地联调预览与导出。
// 返回 true 表示本次写入了数据。
func SeedDemo(ctx context.Context, db *gorm.DB) (bool, error) {
	var existing CV
	switch err := db.WithContext(ctx).Select("id").First(&existing, 1).Error; {
	case err == nil:
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return false, fmt.Errorf("query demo cv: %w", err)
	}

	citations := 42
	demo := CV{
		Model:    gorm.Model{ID: 1},
		Title:    "Demo Academic CV",
		ThemeID:  "academic-classic",
		LayoutID: "academic-detailed",
		FullName: "Dr. Jane Doe",
		Headline: "Associate Professor of Computational Linguistics",
		Email:    "jane.doe@example.edu",
		Phone:    "+44 20 7946 0000",
		Location: "Edinburgh, UK",
		Website:  "https://example.edu/~jdoe",
		Summary:  "Researcher working on low-resource machine translation and evaluation methodology.",
		SectionOverrides: datatypes.JSON(`{"publications":{"typography":{"bodySize":9.5}}}`),
		Experiences: []Experience{
			{
				Entry: Entry{SortOrder: 0}, Title: "Associate Professor", Company: "University of Edinburgh",
				Location: "Edinburgh", StartDate: "2019-09-01", Current: true,
				Highlights: datatypes.JSONSlice[string]{"Leads the multilingual NLP group", "Teaches graduate MT course"},
			},
			{
				Entry: Entry{SortOrder: 1}, Title: "Postdoctoral Researcher", Company: "ETH Zürich",
				Location: "Zürich", StartDate: "2016-01", EndDate: "2019-08",
			},
		},
		Educations: []Education{
			{Institution: "University of Cambridge", Degree: "PhD", Field: "Computer Science", StartDate: "2011", EndDate: "2015"},
		},
		Skills: []Skill{
			{Entry: Entry{SortOrder: 0}, Name: "Python", Category: "Programming"},
			{Entry: Entry{SortOrder: 1}, Name: "PyTorch", Category: "Programming"},
			{Entry: Entry{SortOrder: 2}, Name: "Corpus design", Category: "Research"},
		},
		Publications: []Publication{
			{
				Title: "Evaluating Translation Quality Without References", Authors: "J. Doe, A. Smith",
				Venue: "ACL", Date: "2022-07", DOI: "10.18653/v1/2022.acl-long.1", Citations: &citations,
			},
		},
		Languages: []Language{
			{Name: "English", Proficiency: "Native"},
			{Entry: Entry{SortOrder: 1}, Name: "German", Proficiency: "C1"},
		},
		SocialLinks: []SocialLink{
			{Platform: "ORCID", URL: "https://orcid.org/0000-0000-0000-0000"},
		},
	}

	if err := db.WithContext(ctx).Create(&demo).Error; err != nil {
		return false, fmt.Errorf("seed demo cv: %w", err)
	}
	return true, nil
}
