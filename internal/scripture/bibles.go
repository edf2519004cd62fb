package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"derrclan.com/daily-bread/internal/bible"
)

// verseTextParams asks for the bare text of a verse with no notes,
// headings or numbering mixed in.
var verseTextParams = url.Values{
	"content-type":            {"text"},
	"include-notes":           {"false"},
	"include-titles":          {"false"},
	"include-chapter-numbers": {"false"},
	"include-verse-numbers":   {"false"},
	"include-verse-spans":     {"false"},
	"use-org-id":              {"false"},
}

// Every api.bible response wraps its payload in "data". The pointers let a
// missing or null payload be told apart from an empty one.
type objectResponse[T any] struct {
	Data *T `json:"data"`
}

type listResponse[T any] struct {
	Data *[]T `json:"data"`
}

type bibleData struct {
	ID           *string         `json:"id"`
	Name         *string         `json:"name"`
	Abbreviation string          `json:"abbreviation"`
	Description  string          `json:"description"`
	Language     json.RawMessage `json:"language"`
}

type bookData struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

type chapterData struct {
	ID     *string `json:"id"`
	Number *string `json:"number"`
}

type verseRefData struct {
	ID *string `json:"id"`
}

type nameData struct {
	Name *string `json:"name"`
}

type contentData struct {
	Content *string `json:"content"`
}

// ListBibles returns every translation the API key can read.
func (c *Client) ListBibles(ctx context.Context) ([]bible.Bible, error) {
	const op = "list bibles"

	var resp listResponse[bibleData]
	if err := c.get(ctx, op, "", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, missing(op, "data")
	}

	bibles := make([]bible.Bible, 0, len(*resp.Data))
	for i, d := range *resp.Data {
		if d.ID == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].id", i))
		}
		if d.Name == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].name", i))
		}
		lang, err := languageName(d.Language)
		if err != nil {
			return nil, &DecodeError{Op: op, Path: fmt.Sprintf("data[%d].language", i), Err: err}
		}
		bibles = append(bibles, bible.Bible{
			ID:           *d.ID,
			Name:         *d.Name,
			Abbreviation: d.Abbreviation,
			Description:  d.Description,
			Language:     lang,
		})
	}
	return bibles, nil
}

// languageName accepts either a plain string or api.bible's language object.
func languageName(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	return obj.Name, nil
}

// ListBooks returns the books of version in the order the API lists them.
func (c *Client) ListBooks(ctx context.Context, version string) ([]bible.Book, error) {
	const op = "list books"

	var resp listResponse[bookData]
	if err := c.get(ctx, op, url.PathEscape(version)+"/books", nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, missing(op, "data")
	}

	books := make([]bible.Book, 0, len(*resp.Data))
	for i, d := range *resp.Data {
		if d.ID == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].id", i))
		}
		if d.Name == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].name", i))
		}
		books = append(books, bible.Book{ID: *d.ID, Name: *d.Name})
	}
	return books, nil
}

// GetBibleName returns the display name of a translation.
func (c *Client) GetBibleName(ctx context.Context, version string) (string, error) {
	return c.getName(ctx, "get bible name", url.PathEscape(version))
}

// GetBookName returns the display name of a book, e.g. "Genesis" for "GEN".
func (c *Client) GetBookName(ctx context.Context, version, bookID string) (string, error) {
	return c.getName(ctx, "get book name", url.PathEscape(version)+"/books/"+url.PathEscape(bookID))
}

func (c *Client) getName(ctx context.Context, op, path string) (string, error) {
	var resp objectResponse[nameData]
	if err := c.get(ctx, op, path, nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", missing(op, "data")
	}
	if resp.Data.Name == nil {
		return "", missing(op, "data.name")
	}
	return *resp.Data.Name, nil
}

// ListChapters returns the chapters of a book, intro chapters included.
func (c *Client) ListChapters(ctx context.Context, version, bookID string) ([]bible.Chapter, error) {
	const op = "list chapters"

	path := url.PathEscape(version) + "/books/" + url.PathEscape(bookID) + "/chapters"
	var resp listResponse[chapterData]
	if err := c.get(ctx, op, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, missing(op, "data")
	}

	chapters := make([]bible.Chapter, 0, len(*resp.Data))
	for i, d := range *resp.Data {
		if d.ID == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].id", i))
		}
		if d.Number == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].number", i))
		}
		chapters = append(chapters, bible.Chapter{ID: *d.ID, Number: *d.Number})
	}
	return chapters, nil
}

// ListVerseIDs returns the verse ids of a chapter, e.g. "GEN.1.1".
func (c *Client) ListVerseIDs(ctx context.Context, version, chapterID string) ([]string, error) {
	const op = "list verses"

	path := url.PathEscape(version) + "/chapters/" + url.PathEscape(chapterID) + "/verses"
	var resp listResponse[verseRefData]
	if err := c.get(ctx, op, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, missing(op, "data")
	}

	ids := make([]string, 0, len(*resp.Data))
	for i, d := range *resp.Data {
		if d.ID == nil {
			return nil, missing(op, fmt.Sprintf("data[%d].id", i))
		}
		ids = append(ids, *d.ID)
	}
	return ids, nil
}

// GetVerseText returns the plain text of a single verse.
func (c *Client) GetVerseText(ctx context.Context, version, verseID string) (string, error) {
	const op = "get verse"

	path := url.PathEscape(version) + "/verses/" + url.PathEscape(verseID)
	header := http.Header{"Accept": {"application/json"}}
	var resp objectResponse[contentData]
	if err := c.get(ctx, op, path, verseTextParams, header, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil {
		return "", missing(op, "data")
	}
	if resp.Data.Content == nil {
		return "", missing(op, "data.content")
	}

	text, err := plainText(*resp.Data.Content)
	if err != nil {
		return "", &DecodeError{Op: op, Path: "data.content", Err: err}
	}
	return text, nil
}

// ParseVerseID splits a verse id such as "GEN.1.1" into its parts.
func ParseVerseID(id string) (bible.Reference, error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return bible.Reference{}, &DecodeError{
			Op:  "parse verse id",
			Err: fmt.Errorf("verse id %q has %d parts, want 3", id, len(parts)),
		}
	}
	for _, p := range parts {
		if p == "" {
			return bible.Reference{}, &DecodeError{
				Op:  "parse verse id",
				Err: fmt.Errorf("verse id %q has an empty part", id),
			}
		}
	}
	return bible.Reference{BookID: parts[0], Chapter: parts[1], Verse: parts[2]}, nil
}
