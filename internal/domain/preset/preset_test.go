package preset

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/patternfilter/internal/domain/filter"
)

func testSpec(t *testing.T) filter.Spec {
	t.Helper()
	c, err := filter.NewCondition("confidence", filter.OpGte, 0.8)
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}
	s, err := filter.NewSpec(filter.And, []filter.Condition{c})
	if err != nil {
		t.Fatalf("NewSpec: %v", err)
	}
	return s
}

func TestNew_Valid(t *testing.T) {
	p, err := New("id-1", "  High confidence  ", "conf >= 0.8", testSpec(t), 1700000000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "id-1" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.Name() != "High confidence" {
		t.Errorf("Name() = %q, want trimmed", p.Name())
	}
	if p.Description() != "conf >= 0.8" {
		t.Errorf("Description() = %q", p.Description())
	}
	if len(p.Filters().Conditions()) != 1 {
		t.Errorf("Filters() conditions = %d", len(p.Filters().Conditions()))
	}
	if p.CreatedAt() != 1700000000000 || p.UpdatedAt() != 1700000000000 {
		t.Errorf("timestamps = %d/%d", p.CreatedAt(), p.UpdatedAt())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		presetName  string
		description string
		errSub      string
	}{
		{"empty id", "", "x", "", "id is required"},
		{"empty name", "id", "", "", "name is required"},
		{"blank name", "id", "   ", "", "name is required"},
		{"long name", "id", strings.Repeat("n", maxNameLen+1), "", "name too long"},
		{"long description", "id", "x", strings.Repeat("d", maxDescriptionLen+1), "description too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, tt.presetName, tt.description, filter.Spec{}, 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error = %q, want substring %q", err, tt.errSub)
			}
		})
	}
}

func TestUpdate_KeepsIdentity(t *testing.T) {
	p, _ := New("id-1", "A", "", filter.Spec{}, 100)

	next, err := p.Update("B", "desc", testSpec(t), 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.ID() != "id-1" {
		t.Errorf("ID() = %q", next.ID())
	}
	if next.CreatedAt() != 100 {
		t.Errorf("CreatedAt() = %d, want 100", next.CreatedAt())
	}
	if next.UpdatedAt() != 200 {
		t.Errorf("UpdatedAt() = %d, want 200", next.UpdatedAt())
	}
	if next.Name() != "B" {
		t.Errorf("Name() = %q", next.Name())
	}
	if p.Name() != "A" {
		t.Errorf("original mutated: %q", p.Name())
	}
}

func TestUpdate_Invalid(t *testing.T) {
	p, _ := New("id-1", "A", "", filter.Spec{}, 100)
	if _, err := p.Update("", "", filter.Spec{}, 200); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestReconstruct(t *testing.T) {
	p := Reconstruct("id-1", "A", "d", filter.ReconstructSpec("XOR", nil), 1, 2)
	if p.CreatedAt() != 1 || p.UpdatedAt() != 2 {
		t.Errorf("timestamps = %d/%d", p.CreatedAt(), p.UpdatedAt())
	}
	if p.Filters().RawLogic() != "XOR" {
		t.Errorf("RawLogic() = %q", p.Filters().RawLogic())
	}
}

func TestCopyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Breakouts", "Breakouts (copy)"},
		{"trimmed", "  Breakouts ", "Breakouts (copy)"},
		{"at limit", strings.Repeat("n", maxNameLen), strings.Repeat("n", maxNameLen-len(copySuffix)) + copySuffix},
		{"multibyte cut", strings.Repeat("é", maxNameLen/2), strings.Repeat("é", 60) + copySuffix},
		{"space at cut", strings.Repeat("n", 120) + "   xxxx", strings.Repeat("n", 120) + copySuffix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CopyName(tt.in)
			if got != tt.want {
				t.Errorf("CopyName() = %q, want %q", got, tt.want)
			}
			if len(got) > maxNameLen || !utf8.ValidString(got) {
				t.Errorf("CopyName() = %q is not a valid name", got)
			}
			if _, err := New("id", got, "", filter.Spec{}, 1); err != nil {
				t.Errorf("New rejected copy name: %v", err)
			}
		})
	}
}
