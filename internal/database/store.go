package database

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"gorm.io/gorm"

	"cvcraft/internal/cv"
	"cvcraft/internal/theme"
)

// ErrCVNotFound 表示指定 id 的 CV 不存在。
var ErrCVNotFound = errors.New("cv not found")

// Snapshot 是从数据库读出的一份完整 CV 以及与之关联的主题配置。
// 自定义主题与区块覆盖在此处完成解码与校验，渲染核心只接收类型化的结果。
type Snapshot struct {
	Document      *cv.Document
	CustomTheme   theme.Validation
	Overrides     map[string]theme.Patch
	ExportCount   int
	LastExportKey string
}

// Store 封装 CV 的读取与导出记账。
type Store struct {
	db *gorm.DB
}

// NewStore 创建 Store。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// entryAssociations 是 CV 的全部子表关联，按 sort_order 与主键排序预加载。
var entryAssociations = []string{
	"Experiences",
	"Educations",
	"Skills",
	"Publications",
	"Projects",
	"Certifications",
	"Awards",
	"Languages",
	"References",
	"CustomSections",
	"SocialLinks",
	"ContactInfos",
}

func byEntryOrder(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order, id")
}

// LoadCV 预加载全部子表并转换为 cv.Document。
func (s *Store) LoadCV(ctx context.Context, id uint) (*Snapshot, error) {
	query := s.db.WithContext(ctx).Preload("CustomTheme")
	for _, assoc := range entryAssociations {
		query = query.Preload(assoc, byEntryOrder)
	}

	var record CV
	err := query.First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCVNotFound
		}
		return nil, fmt.Errorf("load cv %d: %w", id, err)
	}

	snapshot := &Snapshot{
		Document:      toDocument(&record),
		Overrides:     theme.DecodeOverrides(record.SectionOverrides),
		ExportCount:   record.ExportCount,
		LastExportKey: record.LastExportKey,
	}
	snapshot.CustomTheme = customTheme(&record)
	return snapshot, nil
}

// customTheme 优先使用嵌入在 CV 上的主题数据，其次是 CustomThemeID 引用的记录。
func customTheme(r *CV) theme.Validation {
	if embedded := bytes.TrimSpace(r.CustomThemeData); len(embedded) > 0 && !bytes.Equal(embedded, []byte("null")) {
		return theme.ValidateCustom(embedded)
	}
	if r.CustomTheme != nil {
		return theme.ValidateCustom(r.CustomTheme.Data)
	}
	return theme.Validation{}
}

// IncrementExportCount 在同步导出成功后累加导出次数。
func (s *Store) IncrementExportCount(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Model(&CV{}).Where("id = ?", id).
		UpdateColumn("export_count", gorm.Expr("export_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment export count for cv %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCVNotFound
	}
	return nil
}

// RecordExport 记录一次异步导出生成的对象，并累加导出次数。返回被替换的旧对象 key。
func (s *Store) RecordExport(ctx context.Context, id uint, objectKey, format string) (string, error) {
	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record CV
		if err := tx.Select("id", "last_export_key").First(&record, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCVNotFound
			}
			return err
		}
		previous = record.LastExportKey

		now := time.Now()
		return tx.Model(&CV{}).Where("id = ?", id).UpdateColumns(map[string]any{
			"export_count":       gorm.Expr("export_count + ?", 1),
			"last_export_key":    objectKey,
			"last_export_format": format,
			"last_exported_at":   &now,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrCVNotFound) {
			return "", err
		}
		return "", fmt.Errorf("record export for cv %d: %w", id, err)
	}
	return previous, nil
}

// ListCVs 返回 CV 的概要信息，按 id 升序。
func (s *Store) ListCVs(ctx context.Context, limit int) ([]CV, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []CV
	err := s.db.WithContext(ctx).
		Select("id", "title", "theme_id", "layout_id", "export_count", "last_exported_at", "updated_at").
		Order("id").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	return records, nil
}

func toDocument(r *CV) *cv.Document {
	doc := &cv.Document{
		ID:       r.ID,
		Title:    r.Title,
		ThemeID:  r.ThemeID,
		LayoutID: r.LayoutID,
		PersonalInfo: cv.PersonalInfo{
			FullName: r.FullName,
			Headline: r.Headline,
			Email:    r.Email,
			Phone:    r.Phone,
			Location: r.Location,
			Website:  r.Website,
			Summary:  r.Summary,
			PhotoRef: r.PhotoPath,
		},
	}

	doc.Experience = convert(r.Experiences, func(e Experience) cv.Experience {
		return cv.Experience{
			ID: e.key(), Order: e.SortOrder,
			Title: e.Title, Company: e.Company, Location: e.Location,
			StartDate: e.StartDate, EndDate: e.EndDate, Current: e.Current,
			Description: e.Description, Highlights: []string(e.Highlights),
		}
	})
	doc.Education = convert(r.Educations, func(e Education) cv.Education {
		return cv.Education{
			ID: e.key(), Order: e.SortOrder,
			Institution: e.Institution, Degree: e.Degree, Field: e.Field, Location: e.Location,
			StartDate: e.StartDate, EndDate: e.EndDate, Current: e.Current,
			GPA: e.GPA, Description: e.Description,
		}
	})
	doc.Skills = convert(r.Skills, func(s Skill) cv.Skill {
		return cv.Skill{ID: s.key(), Order: s.SortOrder, Name: s.Name, Category: s.Category, Level: s.Level}
	})
	doc.Publications = convert(r.Publications, func(p Publication) cv.Publication {
		return cv.Publication{
			ID: p.key(), Order: p.SortOrder,
			Title: p.Title, Authors: p.Authors, Venue: p.Venue, Date: p.Date,
			DOI: p.DOI, URL: p.URL, Abstract: p.Abstract, Citations: p.Citations,
		}
	})
	doc.Projects = convert(r.Projects, func(p Project) cv.Project {
		return cv.Project{
			ID: p.key(), Order: p.SortOrder,
			Name: p.Name, Role: p.Role, StartDate: p.StartDate, EndDate: p.EndDate, Current: p.Current,
			URL: p.URL, Description: p.Description, Technologies: []string(p.Technologies),
		}
	})
	doc.Certifications = convert(r.Certifications, func(c Certification) cv.Certification {
		return cv.Certification{
			ID: c.key(), Order: c.SortOrder,
			Name: c.Name, Issuer: c.Issuer, IssueDate: c.IssueDate, ExpiryDate: c.ExpiryDate,
			CredentialID: c.CredentialID, URL: c.URL,
		}
	})
	doc.Awards = convert(r.Awards, func(a Award) cv.Award {
		return cv.Award{ID: a.key(), Order: a.SortOrder, Title: a.Title, Issuer: a.Issuer, Date: a.Date, Description: a.Description}
	})
	doc.Languages = convert(r.Languages, func(l Language) cv.Language {
		return cv.Language{ID: l.key(), Order: l.SortOrder, Name: l.Name, Proficiency: l.Proficiency}
	})
	doc.References = convert(r.References, func(ref Reference) cv.Reference {
		return cv.Reference{
			ID: ref.key(), Order: ref.SortOrder,
			Name: ref.Name, Position: ref.Position, Organization: ref.Organization,
			Email: ref.Email, Phone: ref.Phone, Relationship: ref.Relationship,
		}
	})
	doc.CustomSections = convert(r.CustomSections, func(c CustomSection) cv.CustomSection {
		return cv.CustomSection{ID: c.key(), Order: c.SortOrder, Title: c.Title, Content: c.Content}
	})
	doc.SocialLinks = convert(r.SocialLinks, func(l SocialLink) cv.SocialLink {
		return cv.SocialLink{ID: l.key(), Order: l.SortOrder, Platform: l.Platform, URL: l.URL, Label: l.Label}
	})
	doc.ContactInfo = convert(r.ContactInfos, func(c ContactInfo) cv.ContactInfo {
		return cv.ContactInfo{ID: c.key(), Order: c.SortOrder, Kind: c.Kind, Value: c.Value, Label: c.Label}
	})
	return doc
}

func (e Entry) key() string {
	return strconv.FormatUint(uint64(e.ID), 10)
}

type entryRow interface {
	entryID() uint
}

// convert 先按主键排列子表记录，使排序值相同的条目保持插入顺序，不依赖数据库返回的行序。
func convert[R entryRow, T any](rows []R, fn func(R) T) []T {
	if len(rows) == 0 {
		return nil
	}
	ordered := slices.Clone(rows)
	slices.SortFunc(ordered, func(a, b R) int {
		return cmp.Compare(a.entryID(), b.entryID())
	})
	out := make([]T, 0, len(ordered))
	for _, row := range ordered {
		out = append(out, fn(row))
	}
	return out
}
