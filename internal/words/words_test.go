package words

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercases and trims", []string{" CRANE ", "Steel"}, []string{"crane", "steel"}},
		{"drops wrong length", []string{"crane", "cranes", "cran", ""}, []string{"crane"}},
		{"drops non alpha", []string{"cr4ne", "crän", "rebar"}, []string{"rebar"}},
		{"drops duplicates keeping order", []string{"brick", "crane", "BRICK"}, []string{"brick", "crane"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	in := "# theme\n\ncrane\n  # indented comment\nsteel\nnope\n"
	got, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"crane", "steel"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %q, want %q", got, want)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("Grout\nslabs\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"grout", "slabs"}) {
		t.Errorf("ReadFile = %q", got)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestEmbeddedVocabulary(t *testing.T) {
	list, err := embedded()
	if err != nil {
		t.Fatalf("embedded: %v", err)
	}
	if len(list) != 39 {
		t.Errorf("embedded list has %d words, want 39", len(list))
	}
	for _, w := range list {
		if len(w) != Length || !isAlpha(w) {
			t.Errorf("invalid embedded word %q", w)
		}
	}
}

func TestInitUsesEmbeddedList(t *testing.T) {
	t.Setenv("WORDS_FILE", "")
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Stats() == 0 {
		t.Fatal("Stats() = 0 after Init")
	}
	if !Contains("CRANE") {
		t.Error("Contains(CRANE) = false, want true")
	}
	if Contains("zzzzz") {
		t.Error("Contains(zzzzz) = true, want false")
	}

	v := Vocabulary()
	v[0] = "mutated"
	if Vocabulary()[0] == "mutated" {
		t.Error("Vocabulary() exposes internal slice")
	}
}
