package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CV 是一份简历的根记录。个人信息平铺在本表，各区块条目存于子表。
type CV struct {
	gorm.Model
	Title    string `gorm:"size:255"`
	ThemeID  string `gorm:"size:64"`
	LayoutID string `gorm:"size:64"`

	FullName  string `gorm:"size:255"`
	Headline  string `gorm:"size:255"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	Location  string `gorm:"size:255"`
	Website   string `gorm:"size:512"`
	Summary   string `gorm:"type:text"`
	PhotoPath string `gorm:"size:512"`

	// CustomThemeData 是直接嵌在 CV 上的自定义主题，非空时优先于 CustomThemeID。
	CustomThemeData datatypes.JSON `gorm:"type:jsonb"`
	// CustomThemeID 指向用户保存的自定义主题，为空表示只用目录主题。
	CustomThemeID *uint `gorm:"index"`
	CustomTheme   *CustomTheme
	// SectionOverrides 以区块 id 为键保存局部样式覆盖。
	SectionOverrides datatypes.JSON `gorm:"type:jsonb"`

	ExportCount      int        `gorm:"default:0"`
	LastExportKey    string     `gorm:"size:512"`
	LastExportFormat string     `gorm:"size:16"`
	LastExportedAt   *time.Time

	Experiences    []Experience    `gorm:"constraint:OnDelete:CASCADE"`
	Educations     []Education     `gorm:"constraint:OnDelete:CASCADE"`
	Skills         []Skill         `gorm:"constraint:OnDelete:CASCADE"`
	Publications   []Publication   `gorm:"constraint:OnDelete:CASCADE"`
	Projects       []Project       `gorm:"constraint:OnDelete:CASCADE"`
	Certifications []Certification `gorm:"constraint:OnDelete:CASCADE"`
	Awards         []Award         `gorm:"constraint:OnDelete:CASCADE"`
	Languages      []Language      `gorm:"constraint:OnDelete:CASCADE"`
	References     []Reference     `gorm:"constraint:OnDelete:CASCADE"`
	CustomSections []CustomSection `gorm:"constraint:OnDelete:CASCADE"`
	SocialLinks    []SocialLink    `gorm:"constraint:OnDelete:CASCADE"`
	ContactInfos   []ContactInfo   `gorm:"constraint:OnDelete:CASCADE"`
}

// CustomTheme 保存用户编写的自定义主题原文，读取时再做结构校验。
type CustomTheme struct {
	gorm.Model
	Name string         `gorm:"size:255"`
	Data datatypes.JSON `gorm:"type:jsonb"`
}

// Entry 是所有子表共有的字段：所属 CV 与用户指定的排序值。
// 自增主键即插入顺序，排序值相同时按主键决定先后。
type Entry struct {
	ID        uint `gorm:"primarykey"`
	CVID      uint `gorm:"index"`
	SortOrder int  `gorm:"default:0"`
}

func (e Entry) entryID() uint { return e.ID }

type Experience struct {
	Entry
	Title       string `gorm:"size:255"`
	Company     string `gorm:"size:255"`
	Location    string `gorm:"size:255"`
	StartDate   string `gorm:"size:32"`
	EndDate     string `gorm:"size:32"`
	Current     bool
	Description string                      `gorm:"type:text"`
	Highlights  datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

type Education struct {
	Entry
	Institution string `gorm:"size:255"`
	Degree      string `gorm:"size:255"`
	Field       string `gorm:"size:255"`
	Location    string `gorm:"size:255"`
	StartDate   string `gorm:"size:32"`
	EndDate     string `gorm:"size:32"`
	Current     bool
	GPA         string `gorm:"size:32"`
	Description string `gorm:"type:text"`
}

type Skill struct {
	Entry
	Name     string `gorm:"size:128"`
	Category string `gorm:"size:128"`
	Level    string `gorm:"size:64"`
}

type Publication struct {
	Entry
	Title     string `gorm:"size:512"`
	Authors   string `gorm:"size:1024"`
	Venue     string `gorm:"size:255"`
	Date      string `gorm:"size:32"`
	DOI       string `gorm:"size:255"`
	URL       string `gorm:"size:512"`
	Abstract  string `gorm:"type:text"`
	Citations *int
}

type Project struct {
	Entry
	Name         string `gorm:"size:255"`
	Role         string `gorm:"size:255"`
	StartDate    string `gorm:"size:32"`
	EndDate      string `gorm:"size:32"`
	Current      bool
	URL          string                      `gorm:"size:512"`
	Description  string                      `gorm:"type:text"`
	Technologies datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

type Certification struct {
	Entry
	Name         string `gorm:"size:255"`
	Issuer       string `gorm:"size:255"`
	IssueDate    string `gorm:"size:32"`
	ExpiryDate   string `gorm:"size:32"`
	CredentialID string `gorm:"size:255"`
	URL          string `gorm:"size:512"`
}

type Award struct {
	Entry
	Title       string `gorm:"size:255"`
	Issuer      string `gorm:"size:255"`
	Date        string `gorm:"size:32"`
	Description string `gorm:"type:text"`
}

type Language struct {
	Entry
	Name        string `gorm:"size:128"`
	Proficiency string `gorm:"size:64"`
}

type Reference struct {
	Entry
	Name         string `gorm:"size:255"`
	Position     string `gorm:"size:255"`
	Organization string `gorm:"size:255"`
	Email        string `gorm:"size:255"`
	Phone        string `gorm:"size:64"`
	Relationship string `gorm:"size:255"`
}

type CustomSection struct {
	Entry
	Title   string `gorm:"size:255"`
	Content string `gorm:"type:text"`
}

type SocialLink struct {
	Entry
	Platform string `gorm:"size:64"`
	URL      string `gorm:"size:512"`
	Label    string `gorm:"size:255"`
}

type ContactInfo struct {
	Entry
	Kind  string `gorm:"size:32"`
	Value string `gorm:"size:255"`
	Label string `gorm:"size:255"`
}

// Models 返回需要迁移的全部模型，父表在前。
func Models() []any {
	return []any{
		&CustomTheme{},
		&CV{},
		&Experience{},
		&Education{},
		&Skill{},
		&Publication{},
		&Project{},
		&Certification{},
		&Award{},
		&Language{},
		&Reference{},
		&CustomSection{},
		&SocialLink{},
		&ContactInfo{},
	}
}

// AutoMigrate 迁移全部模型。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
