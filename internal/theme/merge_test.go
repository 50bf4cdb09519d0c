package theme

import "testing"

func ptr[T any](v T) *T { return &v }

func TestMergePrecedence(t *testing.T) {
	base := ByID("default-professional")
	custom := Valid(Custom{
		ID:    "custom-1",
		Name:  "Custom",
		Patch: Patch{Colors: &ColorsPatch{Primary: ptr("#abcdef")}},
	})
	overrides := map[string]Patch{
		"experience": {Typography: &TypographyPatch{BodySize: ptr(12.0)}},
	}

	got := ResolveEffectiveStyle(base, custom, overrides, "experience")

	if got.Colors.Primary != "#abcdef" {
		t.Fatalf("custom theme must win over base: primary=%q", got.Colors.Primary)
	}
	if got.Typography.BodySize != 12 {
		t.Fatalf("section override must win: bodySize=%v", got.Typography.BodySize)
	}
	if got.Colors.Secondary != base.Colors.Secondary || got.Colors.Accent != base.Colors.Accent {
		t.Fatalf("untouched colors must keep base values: %+v", got.Colors)
	}
	if got.Typography.HeadingSize != base.Typography.HeadingSize || got.Typography.FontFamily != base.Typography.FontFamily {
		t.Fatalf("untouched typography must keep base values: %+v", got.Typography)
	}
	if got.Layout != base.Layout || got.Style != base.Style {
		t.Fatalf("absent groups must keep base values")
	}
	if got.SectionID != "experience" || got.ThemeID != "custom-1" {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestMergeOverrideOnlyAffectsItsSection(t *testing.T) {
	base := ByID("modern-blue")
	m := NewMerger(base, Invalid("none"), map[string]Patch{
		"skills": {Style: &StylePatch{PillSkills: ptr(false)}},
	})

	if m.Resolve("skills").Style.PillSkills {
		t.Fatalf("override must disable pill skills for skills section")
	}
	if !m.Resolve("experience").Style.PillSkills {
		t.Fatalf("other sections must keep the base flag")
	}
	if !m.Global().Style.PillSkills {
		t.Fatalf("global style must ignore section overrides")
	}
}

func TestMergeOverrideBeatsCustom(t *testing.T) {
	base := Default()
	custom := Valid(Custom{ID: "c", Name: "c", Patch: Patch{
		Colors: &ColorsPatch{Primary: ptr("#111111")},
	}})
	overrides := map[string]Patch{
		"awards": {Colors: &ColorsPatch{Primary: ptr("#222222")}},
	}
	if got := ResolveEffectiveStyle(base, custom, overrides, "awards").Colors.Primary; got != "#222222" {
		t.Fatalf("override must beat custom theme, got %q", got)
	}
	if got := ResolveEffectiveStyle(base, custom, overrides, "skills").Colors.Primary; got != "#111111" {
		t.Fatalf("custom theme must apply where no override exists, got %q", got)
	}
}

func TestMergeIgnoresInvalidCustom(t *testing.T) {
	base := ByID("academic-classic")
	got := ResolveEffectiveStyle(base, ValidateCustom([]byte(`{"name":"x"}`)), nil, "summary")
	if got.Colors != base.Colors || got.ThemeID != base.ID {
		t.Fatalf("invalid custom theme must be ignored: %+v", got)
	}
}

func TestMergeRejectsUnsafeValues(t *testing.T) {
	base := Default()
	custom := Valid(Custom{ID: "c", Name: "c", Patch: Patch{
		Colors:     &ColorsPatch{Primary: ptr("red;} body{display:none")},
		Typography: &TypographyPatch{FontFamily: ptr("Evil'); url(x)"), BodySize: ptr(-3.0)},
		Style:      &StylePatch{Divider: ptr(DividerStyle("zigzag"))},
	}})
	got := ResolveEffectiveStyle(base, custom, nil, "summary")
	if got.Colors.Primary != base.Colors.Primary {
		t.Fatalf("unsafe color must be ignored, got %q", got.Colors.Primary)
	}
	if got.Typography.FontFamily != base.Typography.FontFamily || got.Typography.BodySize != base.Typography.BodySize {
		t.Fatalf("unsafe typography must be ignored: %+v", got.Typography)
	}
	if got.Style.Divider != base.Style.Divider {
		t.Fatalf("unknown divider must be ignored")
	}
}

func TestMergeBackfillsFromDefault(t *testing.T) {
	sparse := Theme{ID: "sparse", Colors: Colors{Primary: "#010101"}}
	got := ResolveEffectiveStyle(sparse, Invalid(""), nil, "")
	d := Default()
	if got.Colors.Primary != "#010101" {
		t.Fatalf("present field must be kept")
	}
	if got.Colors.Text != d.Colors.Text || got.Typography.BodySize != d.Typography.BodySize {
		t.Fatalf("missing fields must fall back to default theme: %+v", got)
	}
	if got.Style.HeadingCase != d.Style.HeadingCase || got.Style.Divider != d.Style.Divider {
		t.Fatalf("missing enums must fall back to default theme: %+v", got.Style)
	}
}

func TestMergerIsolatedFromCallerMap(t *testing.T) {
	overrides := map[string]Patch{}
	m := NewMerger(Default(), Invalid(""), overrides)
	overrides["summary"] = Patch{Colors: &ColorsPatch{Primary: ptr("#333333")}}
	if m.Resolve("summary").Colors.Primary == "#333333" {
		t.Fatalf("merger must not observe later mutations of the overrides map")
	}
}
