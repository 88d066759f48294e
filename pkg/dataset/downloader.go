// Package dataset fetches the public source datasets the build consumes.
package dataset

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Default locations of the EDRDG datasets.
const (
	DefaultKanjidicURL = "http://www.edrdg.org/kanjidic/kanjidic2.xml.gz"
	DefaultKradfileURL = "http://ftp.edrdg.org/pub/Nihongo/kradfile.gz"
)

const userAgent = "kanjidb-cli"

// EnsureKanjidic checks if the kanjidic2 XML exists at path. If not, it
// downloads the gzipped dictionary from url (DefaultKanjidicURL when
// empty) and decompresses it into place.
func EnsureKanjidic(ctx context.Context, path, url string) error {
	if url == "" {
		url = DefaultKanjidicURL
	}
	return ensure(ctx, path, url, nil)
}

// EnsureKradfile checks if the radical table exists at path. If not, it
// downloads the upstream kradfile (DefaultKradfileURL when empty), which
// is EUC-JP encoded, and transcodes it to UTF-8.
func EnsureKradfile(ctx context.Context, path, url string) error {
	if url == "" {
		url = DefaultKradfileURL
	}
	return ensure(ctx, path, url, func(r io.Reader) io.Reader {
		return transform.NewReader(r, japanese.EUCJP.NewDecoder())
	})
}

func ensure(ctx context.Context, path, url string, wrap func(io.Reader) io.Reader) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: %s", url, resp.Status)
	}

	var body io.Reader = resp.Body
	if strings.HasSuffix(url, ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return fmt.Errorf("decompress %s: %w", url, err)
		}
		defer gz.Close()
		body = gz
	}
	if wrap != nil {
		body = wrap(body)
	}

	return writeAtomic(path, body)
}

// writeAtomic stages the download next to the target and renames it into
// place so an interrupted fetch never leaves a truncated dataset behind.
func writeAtomic(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
