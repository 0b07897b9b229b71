package tiktok

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadCookieFileMissing(t *testing.T) {
	params, err := readCookieFile(filepath.Join(t.TempDir(), "cookies.json"))
	if err != nil {
		t.Fatalf("missing cookie file should not error: %v", err)
	}
	if params != nil {
		t.Errorf("expected nil params for missing file, got %d", len(params))
	}
}

func TestReadCookieFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := readCookieFile(path); err == nil {
		t.Fatal("expected error for malformed cookie file")
	}
}

func TestReadCookieFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	content := `[{"name": "sessionid", "value": "abc123", "domain": ".tiktok.com", "path": "/"}]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	params, err := readCookieFile(path)
	if err != nil {
		t.Fatalf("readCookieFile failed: %v", err)
	}
	if len(params) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(params))
	}
	if params[0].Name != "sessionid" || params[0].Domain != ".tiktok.com" {
		t.Errorf("unexpected cookie: %+v", params[0])
	}
}

func TestDefaultSelectors(t *testing.T) {
	sel := DefaultSelectors()
	if sel.CommentItem == "" || sel.CommentButton == "" || sel.ReplyBox == "" {
		t.Error("default selectors must be populated")
	}
}
