package query_test

import (
	"errors"
	"testing"

	"github.com/pharmalens/pricelens/internal/query"
)

func TestBuild_NameWithDosageAndForm(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Dolo 650mg tablet", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CanonicalQuery != "Dolo 650mg" {
		t.Errorf("canonical query = %q, want %q", q.CanonicalQuery, "Dolo 650mg")
	}
	if q.Dosage != "650mg" {
		t.Errorf("dosage = %q, want %q", q.Dosage, "650mg")
	}
}

func TestBuild_ExplicitDosageWins(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Augmentin", "625mg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CanonicalQuery != "Augmentin 625mg" {
		t.Errorf("canonical query = %q, want %q", q.CanonicalQuery, "Augmentin 625mg")
	}
}

func TestBuild_NormalizesDosageSpacing(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Crocin 650 MG", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Dosage != "650mg" {
		t.Errorf("dosage = %q, want %q", q.Dosage, "650mg")
	}
}

func TestBuild_GluedDosageSplits(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Dolo650mg", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CanonicalQuery != "Dolo 650mg" {
		t.Errorf("canonical query = %q, want %q", q.CanonicalQuery, "Dolo 650mg")
	}
	if q.Dosage != "650mg" {
		t.Errorf("dosage = %q, want %q", q.Dosage, "650mg")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	first, err := b.Build("Dolo 650mg tablet", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := b.Build(first.CanonicalQuery, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.CanonicalQuery != first.CanonicalQuery {
		t.Errorf("rebuilding canonical output changed it: %q -> %q",
			first.CanonicalQuery, second.CanonicalQuery)
	}
}

func TestBuild_StripsNoiseKeepsParentheticalContent(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Crocin Advance (500 mg)!!", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.CanonicalQuery != "Crocin Advance 500mg" {
		t.Errorf("canonical query = %q, want %q", q.CanonicalQuery, "Crocin Advance 500mg")
	}
}

func TestBuild_EmptyNameFails(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	for _, raw := range []string{"", "   ", "()!!,"} {
		if _, err := b.Build(raw, ""); !errors.Is(err, query.ErrEmptyQuery) {
			t.Errorf("Build(%q) error = %v, want ErrEmptyQuery", raw, err)
		}
	}
}

func TestBuild_BrandGetsGenericAlternatives(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Dolo 650mg", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.AlternativeNames) == 0 {
		t.Fatal("expected alternatives for a known brand")
	}
	if q.AlternativeNames[0] != "paracetamol" {
		t.Errorf("first alternative = %q, want the generic name first", q.AlternativeNames[0])
	}
	for _, alt := range q.AlternativeNames {
		if alt == "dolo" {
			t.Error("alternatives must not include the queried brand itself")
		}
	}
}

func TestBuild_GenericGetsBrandAlternatives(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Paracetamol 500mg", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.AlternativeNames) == 0 {
		t.Fatal("expected brand alternatives for a known generic")
	}
}

func TestBuild_UnknownNameHasNoAlternatives(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Obscuromycin 10mg", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.AlternativeNames) != 0 {
		t.Errorf("alternatives = %v, want none", q.AlternativeNames)
	}
}

func TestBuild_PercentDosage(t *testing.T) {
	t.Parallel()

	b := query.NewBuilder()

	q, err := b.Build("Betadine 10% ointment", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Dosage != "10%" {
		t.Errorf("dosage = %q, want %q", q.Dosage, "10%")
	}
}
