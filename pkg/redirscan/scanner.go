// Package redirscan extracts redirect entries pointing at watched domains
// from a web-server access log, with a small SQLite history so repeated
// scans can report only new entries.
package redirscan

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"opskit/pkg/log"
	"opskit/pkg/models"
)

// combinedPattern matches the common/combined access log format.
var combinedPattern = regexp.MustCompile(`^(\S+) \S+ \S+ \[([^\]]+)\] "([^"]*)" (\d{3}) \S+(.*)$`)

// urlPattern pulls candidate redirect targets out of the trailing fields.
var urlPattern = regexp.MustCompile(`https?://[^"\s]+`)

// ScanFile scans the access log at path for redirects to the watched
// domains.
func ScanFile(path string, domains []string) ([]models.RedirectEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open access log %s: %w", path, err)
	}
	defer f.Close()

	return Scan(f, domains)
}

// Scan reads access log lines and returns every 3xx entry whose target
// matches one of the watched domains. Unparseable lines are skipped.
func Scan(r io.Reader, domains []string) ([]models.RedirectEntry, error) {
	var entries []models.RedirectEntry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		entry, ok := parseLine(line, domains)
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read access log: %w", err)
	}

	log.Debug().Int("matches", len(entries)).Msg("Access log scan complete")
	return entries, nil
}

func parseLine(line string, domains []string) (models.RedirectEntry, bool) {
	m := combinedPattern.FindStringSubmatch(line)
	if m == nil {
		return models.RedirectEntry{}, false
	}

	status, err := strconv.Atoi(m[4])
	if err != nil || status < 300 || status > 399 {
		return models.RedirectEntry{}, false
	}

	target := matchTarget(m[5], domains)
	if target == "" {
		return models.RedirectEntry{}, false
	}

	return models.RedirectEntry{
		SourceIP:  m[1],
		Timestamp: m[2],
		Request:   m[3],
		Status:    status,
		Target:    target,
	}, true
}

// matchTarget returns the first URL in the trailing log fields whose host
// is one of the watched domains (or a subdomain of one).
func matchTarget(rest string, domains []string) string {
	for _, candidate := range urlPattern.FindAllString(rest, -1) {
		u, err := url.Parse(candidate)
		if err != nil {
			continue
		}
		host := strings.ToLower(u.Hostname())
		for _, domain := range domains {
			domain = strings.ToLower(strings.TrimSpace(domain))
			if domain == "" {
				continue
			}
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return candidate
			}
		}
	}
	return ""
}
