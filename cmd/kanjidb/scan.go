package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/sarumaj/kanji-reader/pkg/scan"
)

const fetchUserAgent = "Mozilla/5.0 (compatible; kanjidb-cli)"

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "report the kanji used in a text, joined with the database",
		ArgsUsage: "[TEXT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "scan the readable article text of a web page",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "scan the contents of a local text or HTML file",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "limit the report to the `N` most frequent kanji",
			},
		},
		Action: runScan,
	}
}

func runScan(c *cli.Context) error {
	text, err := scanInput(c)
	if err != nil {
		return err
	}

	scanner, err := scan.NewScanner()
	if err != nil {
		return err
	}
	usages := scanner.Scan(text)
	if len(usages) == 0 {
		return fmt.Errorf("no kanji found in the input")
	}

	sort.SliceStable(usages, func(i, j int) bool { return usages[i].Count > usages[j].Count })
	if top := c.Int("top"); top > 0 && top < len(usages) {
		usages = usages[:top]
	}

	reader, err := openReader(c)
	if err != nil {
		return err
	}
	defer reader.Close()

	tbl := table.New("Kanji", "Count", "JLPT", "Words", "Meanings")
	for _, u := range usages {
		jlpt, meanings := "?", "(not in database)"
		char, err := reader.Character(u.Literal)
		switch {
		case err == nil:
			jlpt = char.JLPT.String()
			meanings = strings.Join(char.Meanings, ", ")
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		tbl.AddRow(string(u.Literal), u.Count, jlpt, strings.Join(u.Words, ", "), meanings)
	}
	tbl.Print()
	return nil
}

func scanInput(c *cli.Context) (string, error) {
	switch {
	case c.String("url") != "":
		return fetchArticle(c)
	case c.String("file") != "":
		data, err := os.ReadFile(c.String("file"))
		if err != nil {
			return "", err
		}
		return scan.StripRuby(string(data)), nil
	case c.NArg() > 0:
		return strings.Join(c.Args().Slice(), " "), nil
	}
	return "", fmt.Errorf("nothing to scan: pass TEXT, --file, or --url")
}

// fetchArticle downloads a page and reduces it to its readable article
// text. Ruby annotations are stripped first so furigana do not leak into
// the extracted text.
func fetchArticle(c *cli.Context) (string, error) {
	pageURL := c.String("url")
	req, err := http.NewRequestWithContext(c.Context, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	sanitized := scan.StripRuby(string(body))

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(strings.NewReader(sanitized), parsed)
	if err != nil {
		return "", fmt.Errorf("extract article from %s: %w", pageURL, err)
	}
	return article.TextContent, nil
}
