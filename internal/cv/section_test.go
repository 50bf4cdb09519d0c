package cv

import "testing"

func TestSectionTypesRegistrationOrder(t *testing.T) {
	types := SectionTypes()
	if len(types) != 11 {
		t.Fatalf("expected 11 section types, got %d", len(types))
	}
	if types[0] != SectionSummary || types[len(types)-1] != SectionCustom {
		t.Fatalf("unexpected registration order: %v", types)
	}
	for i, st := range types {
		if st.Rank() != i {
			t.Fatalf("rank of %s = %d, want %d", st, st.Rank(), i)
		}
	}

	types[0] = "mutated"
	if SectionTypes()[0] != SectionSummary {
		t.Fatalf("SectionTypes must return a copy")
	}
}

func TestParseSectionType(t *testing.T) {
	tests := []struct {
		in   string
		want SectionType
		ok   bool
	}{
		{in: "experience", want: SectionExperience, ok: true},
		{in: " Publications ", want: SectionPublications, ok: true},
		{in: "customsections", want: SectionCustom, ok: true},
		{in: "hobbies", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSectionType(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ParseSectionType(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
	if SectionType("hobbies").Valid() {
		t.Fatalf("unknown section type must not be valid")
	}
	if SectionType("hobbies").Rank() != -1 {
		t.Fatalf("unknown section type rank must be -1")
	}
}

func TestSortedIsStableAndDoesNotMutate(t *testing.T) {
	doc := &Document{
		Experience: []Experience{
			{ID: "c", Order: 2},
			{ID: "a", Order: 1},
			{ID: "b", Order: 1},
		},
	}

	sorted := doc.Sorted()
	got := []string{sorted.Experience[0].ID, sorted.Experience[1].ID, sorted.Experience[2].ID}
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted ids = %v, want %v", got, want)
		}
	}
	if doc.Experience[0].ID != "c" {
		t.Fatalf("Sorted must not reorder the original document")
	}
}

func TestCount(t *testing.T) {
	doc := &Document{PersonalInfo: PersonalInfo{Summary: "  "}, Skills: []Skill{{Name: "Go"}}}
	if doc.Count(SectionSummary) != 0 {
		t.Fatalf("blank summary must count as empty")
	}
	if doc.Count(SectionSkills) != 1 {
		t.Fatalf("expected one skill")
	}
	if doc.Count(SectionPublications) != 0 {
		t.Fatalf("expected zero publications")
	}
	var nilDoc *Document
	if nilDoc.Count(SectionSkills) != 0 {
		t.Fatalf("nil document must count as empty")
	}
}
