package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestEnsureKanjidicDownloadsAndDecompresses(t *testing.T) {
	payload := []byte("<kanjidic2></kanjidic2>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipped(t, payload))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "kanjidic2.xml")
	if err := EnsureKanjidic(context.Background(), path, srv.URL+"/kanjidic2.xml.gz"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("unexpected content %q", got)
	}
}

func TestEnsureKanjidicSkipsExisting(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "kanjidic2.xml")
	if err := os.WriteFile(path, []byte("present"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := EnsureKanjidic(context.Background(), path, srv.URL); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no download for existing file, got %d requests", calls)
	}
}

func TestEnsureKradfileTranscodesEUCJP(t *testing.T) {
	// "亜 : 唖" in EUC-JP: 亜 is 0xB0A1, 唖 is 0xB0A2.
	eucjp := []byte{0xB0, 0xA1, ' ', ':', ' ', 0xB0, 0xA2, '\n'}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(gzipped(t, eucjp))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "kradfile.utf8")
	if err := EnsureKradfile(context.Background(), path, srv.URL+"/kradfile.gz"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "亜 : 唖\n" {
		t.Errorf("transcode produced %q", got)
	}
}

func TestEnsureReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "kanjidic2.xml")
	if err := EnsureKanjidic(context.Background(), path, srv.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("failed download must not leave a file behind")
	}
}
