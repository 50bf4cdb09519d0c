package theme

const DefaultID = "default-professional"

// catalog 在包初始化时构建，之后只读，可被任意并发读取。
var catalog = []Theme{
	{
		ID:          DefaultID,
		Name:        "Default Professional",
		Description: "Neutral navy palette with a clean sans-serif body.",
		Colors: Colors{
			Primary:    "#1f2937",
			Secondary:  "#4b5563",
			Accent:     "#2563eb",
			Text:       "#111827",
			Background: "#ffffff",
			Border:     "#d1d5db",
		},
		Typography: Typography{
			FontFamily:        "Inter",
			HeadingFontFamily: "Inter",
			NameSize:          24,
			HeadingSize:       13,
			BodySize:          10,
			SmallSize:         8.5,
			LineHeight:        1.4,
		},
		Layout: Layout{SectionGap: 14, ItemGap: 8, ContentPadding: 0},
		Style: Style{
			UseIcons:    false,
			Divider:     DividerSolid,
			PillSkills:  false,
			HeadingCase: HeadingCaseUpper,
		},
	},
	{
		ID:          "modern-blue",
		Name:        "Modern Blue",
		Description: "Bright blue accents, pill-shaped skills and contact icons.",
		Colors: Colors{
			Primary:    "#1e40af",
			Secondary:  "#3b82f6",
			Accent:     "#0ea5e9",
			Text:       "#0f172a",
			Background: "#ffffff",
			Border:     "#bfdbfe",
		},
		Typography: Typography{
			FontFamily:        "Roboto",
			HeadingFontFamily: "Montserrat",
			NameSize:          26,
			HeadingSize:       13,
			BodySize:          10,
			SmallSize:         8.5,
			LineHeight:        1.45,
		},
		Layout: Layout{SectionGap: 16, ItemGap: 9, ContentPadding: 4},
		Style: Style{
			UseIcons:    true,
			Divider:     DividerNone,
			PillSkills:  true,
			HeadingCase: HeadingCaseNone,
		},
	},
	{
		ID:          "academic-classic",
		Name:        "Academic Classic",
		Description: "Serif typography with double rules, suited to publication-heavy CVs.",
		Colors: Colors{
			Primary:    "#7f1d1d",
			Secondary:  "#44403c",
			Accent:     "#991b1b",
			Text:       "#1c1917",
			Background: "#ffffff",
			Border:     "#a8a29e",
		},
		Typography: Typography{
			FontFamily:        "Merriweather",
			HeadingFontFamily: "Playfair Display",
			NameSize:          24,
			HeadingSize:       12.5,
			BodySize:          10,
			SmallSize:         8.5,
			LineHeight:        1.5,
		},
		Layout: Layout{SectionGap: 14, ItemGap: 7, ContentPadding: 0},
		Style: Style{
			UseIcons:    false,
			Divider:     DividerDouble,
			PillSkills:  false,
			HeadingCase: HeadingCaseCapitalize,
		},
	},
	{
		ID:          "minimal-mono",
		Name:        "Minimal Mono",
		Description: "Black and grey only, generous whitespace, no decoration.",
		Colors: Colors{
			Primary:    "#000000",
			Secondary:  "#525252",
			Accent:     "#262626",
			Text:       "#171717",
			Background: "#ffffff",
			Border:     "#e5e5e5",
		},
		Typography: Typography{
			FontFamily:        "IBM Plex Sans",
			HeadingFontFamily: "IBM Plex Sans",
			NameSize:          22,
			HeadingSize:       11,
			BodySize:          9.5,
			SmallSize:         8,
			LineHeight:        1.5,
		},
		Layout: Layout{SectionGap: 18, ItemGap: 10, ContentPadding: 0},
		Style: Style{
			UseIcons:    false,
			Divider:     DividerNone,
			PillSkills:  false,
			HeadingCase: HeadingCaseLower,
		},
	},
	{
		ID:          "warm-earth",
		Name:        "Warm Earth",
		Description: "Terracotta and sand tones with dashed dividers.",
		Colors: Colors{
			Primary:    "#9a3412",
			Secondary:  "#78716c",
			Accent:     "#c2410c",
			Text:       "#292524",
			Background: "#fffbf5",
			Border:     "#fed7aa",
		},
		Typography: Typography{
			FontFamily:        "Lato",
			HeadingFontFamily: "Lora",
			NameSize:          25,
			HeadingSize:       13,
			BodySize:          10,
			SmallSize:         8.5,
			LineHeight:        1.45,
		},
		Layout: Layout{SectionGap: 15, ItemGap: 8, ContentPadding: 2},
		Style: Style{
			UseIcons:    true,
			Divider:     DividerDashed,
			PillSkills:  true,
			HeadingCase: HeadingCaseUpper,
		},
	},
	{
		ID:          "forest-green",
		Name:        "Forest Green",
		Description: "Deep green headings with light mint borders.",
		Colors: Colors{
			Primary:    "#14532d",
			Secondary:  "#166534",
			Accent:     "#15803d",
			Text:       "#052e16",
			Background: "#ffffff",
			Border:     "#bbf7d0",
		},
		Typography: Typography{
			FontFamily:        "Source Sans 3",
			HeadingFontFamily: "Source Serif 4",
			NameSize:          24,
			HeadingSize:       13,
			BodySize:          10,
			SmallSize:         8.5,
			LineHeight:        1.4,
		},
		Layout: Layout{SectionGap: 14, ItemGap: 8, ContentPadding: 0},
		Style: Style{
			UseIcons:    true,
			Divider:     DividerSolid,
			PillSkills:  false,
			HeadingCase: HeadingCaseNone,
		},
	},
	{
		ID:          "elegant-serif",
		Name:        "Elegant Serif",
		Description: "High-contrast serif headings on an ivory page.",
		Colors: Colors{
			Primary:    "#312e81",
			Secondary:  "#57534e",
			Accent:     "#a16207",
			Text:       "#1c1917",
			Background: "#fefdf8",
			Border:     "#e7e5e4",
		},
		Typography: Typography{
			FontFamily:        "EB Garamond",
			HeadingFontFamily: "Cormorant Garamond",
			NameSize:          28,
			HeadingSize:       14,
			BodySize:          10.5,
			SmallSize:         9,
			LineHeight:        1.45,
		},
		Layout: Layout{SectionGap: 16, ItemGap: 8, ContentPadding: 0},
		Style: Style{
			UseIcons:    false,
			Divider:     DividerSolid,
			PillSkills:  false,
			HeadingCase: HeadingCaseCapitalize,
		},
	},
}

var byID = func() map[string]int {
	index := make(map[string]int, len(catalog))
	for i, t := range catalog {
		index[t.ID] = i
	}
	return index
}()

// Default 返回内置默认主题（目录中第一个注册的主题）。
func Default() Theme {
	return catalog[0]
}

// ByID 按 id 精确查找主题；未知或空 id 回退到默认主题，永不失败。
func ByID(id string) Theme {
	if i, ok := byID[id]; ok {
		return catalog[i]
	}
	return Default()
}

// Lookup 与 ByID 相同，但额外报告 id 是否命中目录。
func Lookup(id string) (Theme, bool) {
	i, ok := byID[id]
	if !ok {
		return Default(), false
	}
	return catalog[i], true
}

// All 按注册顺序返回全部主题的副本。
func All() []Theme {
	out := make([]Theme, len(catalog))
	copy(out, catalog)
	return out
}
