package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"derrclan.com/daily-bread/internal/config"
	"derrclan.com/daily-bread/internal/resolver"
	"derrclan.com/daily-bread/internal/scripture"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/kjv":                        `{"data":{"id":"kjv","name":"King James (Authorised) Version"}}`,
		"/kjv/books":                  `{"data":[{"id":"JHN","name":"John"}]}`,
		"/kjv/books/JHN":              `{"data":{"id":"JHN","name":"John"}}`,
		"/kjv/books/JHN/chapters":     `{"data":[{"id":"JHN.11","number":"11"}]}`,
		"/kjv/chapters/JHN.11/verses": `{"data":[{"id":"JHN.11.35"}]}`,
		"/kjv/verses/JHN.11.35":       `{"data":{"id":"JHN.11.35","content":"Jesus wept."}}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// run executes the command tree against the fake API with a clean
// environment and returns stdout.
func run(t *testing.T, api *httptest.Server, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	a.clientOpts = []scripture.Option{scripture.WithBaseURL(api.URL + "/")}

	cmd := a.rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func cleanEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{"BIBLE_API_KEY", "BIBLE_VERSION", "BIBLE_DATABASE", "BIBLE_TIMEOUT"} {
		t.Setenv(env, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestNewVerseAndHistory(t *testing.T) {
	cleanEnv(t)
	api := fakeAPI(t)
	db := filepath.Join(t.TempDir(), "history.db")

	out, err := run(t, api, "new", "--api-key", "test-key", "--database", db)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if !strings.Contains(out, "Jesus wept.") || !strings.Contains(out, "John 11:35") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, api, "history", "--database", db)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "John 11:35") || !strings.Contains(out, "new") {
		t.Errorf("history does not list the verse:\n%s", out)
	}
}

func TestBookCommand(t *testing.T) {
	cleanEnv(t)
	api := fakeAPI(t)

	out, err := run(t, api, "book", "jOhN", "--api-key", "test-key", "--no-history")
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if !strings.Contains(out, "jOhN 11:35") {
		t.Errorf("expected the caller's spelling in the reference:\n%s", out)
	}

	_, err = run(t, api, "book", "Hezekiah", "--api-key", "test-key", "--no-history")
	if !errors.Is(err, resolver.ErrInvalidBook) {
		t.Fatalf("expected ErrInvalidBook, got %v", err)
	}
	if !strings.Contains(err.Error(), "bible list") {
		t.Errorf("error should point at `bible list`: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	cleanEnv(t)
	t.Setenv("BIBLE_API_KEY", "test-key")

	out, err := run(t, fakeAPI(t), "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := "King James (Authorised) Version\n===============================\nJohn\n"
	if out != want {
		t.Errorf("list output =\n%q\nwant\n%q", out, want)
	}
}

func TestMissingAPIKey(t *testing.T) {
	cleanEnv(t)

	_, err := run(t, fakeAPI(t), "daily", "--no-history")
	if !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestBadAPIKey(t *testing.T) {
	cleanEnv(t)

	_, err := run(t, fakeAPI(t), "daily", "--api-key", "wrong", "--no-history")
	var statusErr *scripture.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *scripture.StatusError, got %v", err)
	}
}
