// Package resolver turns a seed into a verse by walking the API from book to
// chapter to verse.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"derrclan.com/daily-bread/internal/bible"
	"derrclan.com/daily-bread/internal/scripture"
	"derrclan.com/daily-bread/internal/seed"
)

var (
	ErrNoBooksAvailable    = errors.New("no books available")
	ErrNoChaptersAvailable = errors.New("no chapters available")
	ErrNoVersesAvailable   = errors.New("no verses available")
	ErrInvalidBook         = errors.New("book not found")
)

// Gateway is the part of the scripture client the resolver needs.
type Gateway interface {
	ListBibles(ctx context.Context) ([]bible.Bible, error)
	ListBooks(ctx context.Context, version string) ([]bible.Book, error)
	GetBibleName(ctx context.Context, version string) (string, error)
	GetBookName(ctx context.Context, version, bookID string) (string, error)
	ListChapters(ctx context.Context, version, bookID string) ([]bible.Chapter, error)
	ListVerseIDs(ctx context.Context, version, chapterID string) ([]string, error)
	GetVerseText(ctx context.Context, version, verseID string) (string, error)
}

// Picker chooses an index in [0, n).
type Picker interface {
	NextIndex(n int) int
}

// Seeding says where the seed of a resolution comes from.
type Seeding int

const (
	// SeedEntropy gives a different verse on every run.
	SeedEntropy Seeding = iota
	// SeedDaily gives the same verse to everyone on the same calendar day.
	SeedDaily
)

func (s Seeding) String() string {
	switch s {
	case SeedDaily:
		return "daily"
	default:
		return "entropy"
	}
}

// Policy selects the seed source and, optionally, the book to draw from.
type Policy struct {
	Seeding Seeding
	// Book is a book name as a reader would type it. Empty means any book.
	Book string
}

// Resolver resolves verses from a single translation.
type Resolver struct {
	gw        Gateway
	version   string
	now       func() time.Time
	entropy   func() uint64
	newPicker func(seed uint64) Picker
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now for daily seeds.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// WithEntropy replaces the entropy seed source.
func WithEntropy(f func() uint64) Option {
	return func(r *Resolver) {
		r.entropy = f
	}
}

// WithPicker replaces the seeded generator.
func WithPicker(f func(seed uint64) Picker) Option {
	return func(r *Resolver) {
		r.newPicker = f
	}
}

// New returns a resolver for version backed by gw.
func New(gw Gateway, version string, opts ...Option) *Resolver {
	r := &Resolver{
		gw:      gw,
		version: version,
		now:     time.Now,
		entropy: seed.FromEntropy,
		newPicker: func(s uint64) Picker {
			return seed.New(s)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Version returns the translation id the resolver reads from.
func (r *Resolver) Version() string {
	return r.version
}

// DailyVerse returns today's verse. It is the same for every caller on the
// same local calendar day.
func (r *Resolver) DailyVerse(ctx context.Context) (*bible.Verse, error) {
	return r.Resolve(ctx, Policy{Seeding: SeedDaily})
}

// NewVerse returns a random verse from any book.
func (r *Resolver) NewVerse(ctx context.Context) (*bible.Verse, error) {
	return r.Resolve(ctx, Policy{Seeding: SeedEntropy})
}

// VerseFromBook returns a random verse from the named book. The name is
// matched case-insensitively and used verbatim in the result.
func (r *Resolver) VerseFromBook(ctx context.Context, name string) (*bible.Verse, error) {
	return r.Resolve(ctx, Policy{Seeding: SeedEntropy, Book: name})
}

// Resolve runs the book, chapter, verse lookup for p. Each step needs the
// result of the previous one, so the calls are made one at a time.
func (r *Resolver) Resolve(ctx context.Context, p Policy) (*bible.Verse, error) {
	s, err := r.seed(p.Seeding)
	if err != nil {
		return nil, err
	}
	picker := r.newPicker(s)
	slog.Debug("resolving verse", "version", r.version, "seeding", p.Seeding, "book", p.Book)

	var bookID string
	if p.Book == "" {
		bookID, err = r.randomBook(ctx, picker)
	} else {
		bookID, err = r.lookupBook(ctx, p.Book)
	}
	if err != nil {
		return nil, err
	}

	chapters, err := r.gw.ListChapters(ctx, r.version, bookID)
	if err != nil {
		return nil, err
	}
	chapter, err := selectChapter(chapters, picker)
	if err != nil {
		return nil, fmt.Errorf("book %s: %w", bookID, err)
	}
	slog.Debug("selected chapter", "chapter", chapter.ID)

	verseIDs, err := r.gw.ListVerseIDs(ctx, r.version, chapter.ID)
	if err != nil {
		return nil, err
	}
	if len(verseIDs) == 0 {
		return nil, fmt.Errorf("chapter %s: %w", chapter.ID, ErrNoVersesAvailable)
	}
	verseID := verseIDs[picker.NextIndex(len(verseIDs))]
	slog.Debug("selected verse", "verse", verseID)

	text, err := r.gw.GetVerseText(ctx, r.version, verseID)
	if err != nil {
		return nil, err
	}

	ref, err := scripture.ParseVerseID(verseID)
	if err != nil {
		return nil, err
	}

	bookName := p.Book
	if bookName == "" {
		bookName, err = r.gw.GetBookName(ctx, r.version, ref.BookID)
		if err != nil {
			return nil, err
		}
	}

	return &bible.Verse{
		Book:    bookName,
		Chapter: ref.Chapter,
		Number:  ref.Verse,
		Text:    text,
	}, nil
}

func (r *Resolver) seed(s Seeding) (uint64, error) {
	if s == SeedDaily {
		return seed.FromDate(r.now())
	}
	return r.entropy(), nil
}

func (r *Resolver) randomBook(ctx context.Context, picker Picker) (string, error) {
	books, err := r.gw.ListBooks(ctx, r.version)
	if err != nil {
		return "", err
	}
	if len(books) == 0 {
		return "", fmt.Errorf("version %s: %w", r.version, ErrNoBooksAvailable)
	}
	book := books[picker.NextIndex(len(books))]
	slog.Debug("selected book", "book", book.ID)
	return book.ID, nil
}

// lookupBook maps a book name to its id with a case-insensitive exact match.
func (r *Resolver) lookupBook(ctx context.Context, name string) (string, error) {
	books, err := r.gw.ListBooks(ctx, r.version)
	if err != nil {
		return "", err
	}
	for _, b := range books {
		if strings.EqualFold(b.Name, name) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBook, name)
}

// selectChapter draws a chapter. An intro chapter is replaced by the chapter
// after it, wrapping to the first chapter when the intro is last. Only one
// step is taken; the list is not scanned for the next non-intro chapter.
func selectChapter(chapters []bible.Chapter, picker Picker) (bible.Chapter, error) {
	if len(chapters) == 0 {
		return bible.Chapter{}, ErrNoChaptersAvailable
	}

	drawn := picker.NextIndex(len(chapters))
	idx := drawn
	if chapters[idx].IsIntro() {
		idx = (idx + 1) % len(chapters)
		if idx == drawn {
			return bible.Chapter{}, ErrNoChaptersAvailable
		}
	}
	return chapters[idx], nil
}

// Books returns the book listing of the resolver's translation.
func (r *Resolver) Books(ctx context.Context) (*bible.Books, error) {
	name, err := r.gw.GetBibleName(ctx, r.version)
	if err != nil {
		return nil, err
	}
	books, err := r.gw.ListBooks(ctx, r.version)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(books))
	for _, b := range books {
		names = append(names, b.Name)
	}
	return &bible.Books{Name: name, Books: names}, nil
}

// Bibles returns the translations available to the API key.
func (r *Resolver) Bibles(ctx context.Context) ([]bible.Bible, error) {
	return r.gw.ListBibles(ctx)
}
