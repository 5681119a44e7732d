// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caffix/stringset"
	"github.com/miekg/dns"
)

// DefaultMaxLines is the default maximum number of lines read from a hostname
// corpus file.
const DefaultMaxLines = 20_000

// ErrEmptyCorpus signals that a corpus source didn't yield a single usable
// hostname.
var ErrEmptyCorpus = errors.New("empty hostname corpus")

// ErrFileNotFound signals a missing corpus file.
var ErrFileNotFound = errors.New("file not found")

// Corpus is an ordered and deduplicated sequence of hostnames. A Corpus is
// built once and must not be modified afterwards, so it can be shared freely
// between goroutines.
type Corpus []string

// Load reads a hostname corpus from the file at path, considering only the
// first maxLines lines of the file (also counting comment and empty lines). A
// missing file as well as an empty corpus is reported as an error.
func Load(path string, maxLines int) (Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("cannot open hostname corpus: %w", err)
	}
	defer f.Close()
	c, err := Parse(f, maxLines)
	if err != nil {
		return nil, fmt.Errorf("cannot load hostnames from %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a line-oriented hostname corpus from r, with one hostname per
// line. Lines may carry leading columns, such as a rank, separated by spaces
// or commas, in which case the final field is taken as the hostname. Empty
// lines and lines starting with "#" are skipped, as are fields that aren't
// valid DNS names. Duplicate hostnames only keep their first occurrence.
//
// At most maxLines lines are read from r; a maxLines of zero or less reads all
// lines.
func Parse(r io.Reader, maxLines int) (Corpus, error) {
	seen := stringset.New()
	defer seen.Close()

	var c Corpus
	scanner := bufio.NewScanner(r)
	for lines := 0; scanner.Scan(); lines++ {
		if maxLines > 0 && lines >= maxLines {
			break
		}
		name := hostname(scanner.Text())
		if name == "" || seen.Has(name) {
			continue
		}
		if _, ok := dns.IsDomainName(name); !ok {
			continue
		}
		seen.Insert(name)
		c = append(c, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return nil, ErrEmptyCorpus
	}
	return c, nil
}

// hostname returns the hostname field of a corpus line, or "" if the line is
// empty or a comment.
func hostname(line string) string {
	if strings.HasPrefix(line, "#") {
		return ""
	}
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\r'
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
