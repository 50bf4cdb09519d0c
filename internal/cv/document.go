package cv

// Document 是一份完整 CV 的数据图，所有子集合均已预加载。
// 日期字段统一为 ISO-8601 字符串，可空字段使用空字符串或指针表示。
type Document struct {
	ID             uint            `json:"id"`
	Title          string          `json:"title"`
	ThemeID        string          `json:"theme_id"`
	LayoutID       string          `json:"layout_id"`
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Publications   []Publication   `json:"publications"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Awards         []Award         `json:"awards"`
	Languages      []Language      `json:"languages"`
	References     []Reference     `json:"references"`
	CustomSections []CustomSection `json:"custom_sections"`
	SocialLinks    []SocialLink    `json:"social_links"`
	ContactInfo    []ContactInfo   `json:"contact_info"`
}

// PersonalInfo 描述页眉区域使用的个人信息。
type PersonalInfo struct {
	FullName string `json:"full_name"`
	Headline string `json:"headline"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	Summary  string `json:"summary"`
	// PhotoRef 为上传照片的引用：绝对 URL 或对象存储中的相对路径。
	PhotoRef string `json:"photo_ref"`
}

type Experience struct {
	ID          string   `json:"id"`
	Order       int      `json:"order"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Current     bool     `json:"current"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

type Education struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

type Skill struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    string `json:"level"`
}

type Publication struct {
	ID        string `json:"id"`
	Order     int    `json:"order"`
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Venue     string `json:"venue"`
	Date      string `json:"date"`
	DOI       string `json:"doi"`
	URL       string `json:"url"`
	Abstract  string `json:"abstract"`
	Citations *int   `json:"citations,omitempty"`
}

type Project struct {
	ID           string   `json:"id"`
	Order        int      `json:"order"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Current      bool     `json:"current"`
	URL          string   `json:"url"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

type Certification struct {
	ID           string `json:"id"`
	Order        int    `json:"order"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issue_date"`
	ExpiryDate   string `json:"expiry_date"`
	CredentialID string `json:"credential_id"`
	URL          string `json:"url"`
}

type Award struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Language struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency"`
}

type Reference struct {
	ID           string `json:"id"`
	Order        int    `json:"order"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// CustomSection 是用户自定义的标题 + 正文块，全部归入 customSections 区块渲染。
type CustomSection struct {
	ID      string `json:"id"`
	Order   int    `json:"order"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type SocialLink struct {
	ID       string `json:"id"`
	Order    int    `json:"order"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Label    string `json:"label"`
}

type ContactInfo struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}
