// Package bible holds the values produced by a verse lookup and how they
// are shown to a reader.
package bible

import "fmt"

// IntroChapter is the chapter number api.bible uses for a book's front matter.
const IntroChapter = "intro"

// Book is one entry of a translation's book list.
type Book struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Chapter is one entry of a book's chapter list.
type Chapter struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// IsIntro reports whether the chapter is front matter rather than scripture.
func (c Chapter) IsIntro() bool {
	return c.Number == IntroChapter
}

// Reference is a verse id split into its book, chapter and verse parts.
type Reference struct {
	BookID  string
	Chapter string
	Verse   string
}

// Verse is a resolved verse ready for display.
type Verse struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Number  string `json:"number"`
	Text    string `json:"text"`
}

// Reference returns the human readable reference, e.g. "John 3:16".
func (v Verse) Reference() string {
	return fmt.Sprintf("%s %s:%s", v.Book, v.Chapter, v.Number)
}

// Bible describes a translation available from the API.
type Bible struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Description  string `json:"description,omitempty"`
	Language     string `json:"language,omitempty"`
}

func (b Bible) String() string {
	s := fmt.Sprintf("%s  %s", b.ID, b.Name)
	if b.Language != "" {
		s += fmt.Sprintf(" (%s)", b.Language)
	}
	return s
}

// Books is the book listing of a single translation.
type Books struct {
	Name  string   `json:"name"`
	Books []string `json:"books"`
}
