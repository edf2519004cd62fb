package bible

import (
	"strings"
	"testing"
)

func TestVerseReference(t *testing.T) {
	v := Verse{Book: "John", Chapter: "3", Number: "16", Text: "For God so loved the world"}
	if got, want := v.Reference(), "John 3:16"; got != want {
		t.Errorf("Reference() = %q, want %q", got, want)
	}
}

func TestChapterIsIntro(t *testing.T) {
	if !(Chapter{ID: "GEN.intro", Number: "intro"}).IsIntro() {
		t.Error("expected intro chapter to be reported as intro")
	}
	if (Chapter{ID: "GEN.1", Number: "1"}).IsIntro() {
		t.Error("chapter 1 reported as intro")
	}
}

func TestBooksString(t *testing.T) {
	b := Books{
		Name:  "King James (Authorised) Version",
		Books: []string{"Genesis", "Exodus", "Leviticus"},
	}

	want := "King James (Authorised) Version\n" +
		"===============================\n" +
		"Genesis\nExodus\nLeviticus\n"
	if got := b.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestBibleString(t *testing.T) {
	tests := []struct {
		name  string
		bible Bible
		want  string
	}{
		{
			name:  "with language",
			bible: Bible{ID: "de4e12af7f28f599-02", Name: "King James (Authorised) Version", Language: "English"},
			want:  "de4e12af7f28f599-02  King James (Authorised) Version (English)",
		},
		{
			name:  "without language",
			bible: Bible{ID: "abc", Name: "Test"},
			want:  "abc  Test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bible.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVerseRender(t *testing.T) {
	v := Verse{
		Book:    "John",
		Chapter: "11",
		Number:  "35",
		Text:    "Jesus wept.",
	}

	t.Run("wide terminal aligns reference with text", func(t *testing.T) {
		got := v.Render(80)
		want := "Jesus wept.\n\n John 11:35\n"
		if got != want {
			t.Errorf("Render(80) = %q, want %q", got, want)
		}
	})

	t.Run("narrow terminal wraps text", func(t *testing.T) {
		long := Verse{Book: "Gen", Chapter: "1", Number: "1", Text: "In the beginning God created the heaven and the earth."}
		got := long.Render(20)
		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		for _, line := range lines {
			if len(line) > 20 {
				t.Errorf("line %q is wider than 20 columns", line)
			}
		}
		last := lines[len(lines)-1]
		if strings.TrimSpace(last) != "Gen 1:1" {
			t.Errorf("last line = %q, want reference", last)
		}
	})

	t.Run("tiny terminal skips layout", func(t *testing.T) {
		got := v.Render(5)
		want := "Jesus wept.\n\nJohn 11:35\n"
		if got != want {
			t.Errorf("Render(5) = %q, want %q", got, want)
		}
	})
}
