// Package readme extracts portfolio metadata from a project's README.
//
// The README dialect is semi-structured: the project name is the first
// level-1 heading, the description lives under an "About The Project"
// section terminated by a horizontal rule, and technologies are encoded
// in shields.io badge URLs. Extraction is best-effort; missing pieces
// yield empty fields, never an error.
package readme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/victorebouvie/portfoliosync/internal/domain"
)

// FileName is the document read from the project clone root
const FileName = "README.md"

const aboutHeading = "About The Project"

var (
	// First level-1 heading: exactly one '#', then whitespace and text
	titleRegex = regexp.MustCompile(`(?m)^#[ \t]+(\S.*)$`)

	// Shields.io badge segment: badge/<label>-<tech>-<color>
	badgeRegex = regexp.MustCompile(`badge/[^-\n]*-([^-\n]+)-`)

	// Horizontal rule: a line of three or more dashes
	ruleRegex = regexp.MustCompile(`^-{3,}$`)
)

// Extract parses README content into a ProjectRecord. The id, github_url
// and live_url fields are left for the caller to fill.
func Extract(content string) *domain.ProjectRecord {
	return &domain.ProjectRecord{
		Name:         extractTitle(content),
		Description:  extractDescription(content),
		Technologies: extractTechnologies(content),
	}
}

// Load reads the README from a cloned project's root directory.
func Load(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return "", domain.ErrReadmeNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func extractTitle(content string) string {
	m := titleRegex.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// extractDescription captures the text between the "About The Project"
// heading and the next horizontal rule. With no rule, capture runs to end
// of document. Blank lines are collapsed and the remainder joined into a
// single whitespace-normalized block.
func extractDescription(content string) string {
	var (
		capturing bool
		parts     []string
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if !capturing {
			if isAboutHeading(trimmed) {
				capturing = true
			}
			continue
		}

		if ruleRegex.MatchString(trimmed) {
			break
		}
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, " ")
}

// isAboutHeading reports whether a line is a level-2 heading reading
// "About The Project", ignoring case and a single leading decorative
// glyph (e.g. an emoji).
func isAboutHeading(line string) bool {
	rest, ok := strings.CutPrefix(line, "##")
	if !ok || strings.HasPrefix(rest, "#") {
		return false
	}

	text := stripLeadingGlyph(strings.TrimSpace(rest))
	return strings.EqualFold(text, aboutHeading)
}

// stripLeadingGlyph drops the first word when it carries no letters or
// digits, tolerating decorated headings like "## 📖 About The Project".
func stripLeadingGlyph(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	r, _ := utf8.DecodeRuneInString(fields[0])
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return s
	}
	return strings.Join(fields[1:], " ")
}

// extractTechnologies collects technology tokens from badge URLs in first
// appearance order, dropping exact duplicates. Tokens prefixed "Platform"
// name badge targets rather than technologies and are skipped. The result
// is never nil: the persisted layout requires an array even when the
// README carries no badges.
func extractTechnologies(content string) []string {
	techs := []string{}
	seen := make(map[string]bool)

	for _, m := range badgeRegex.FindAllStringSubmatch(content, -1) {
		tech := m[1]
		if seen[tech] || strings.HasPrefix(tech, "Platform") {
			continue
		}
		seen[tech] = true
		techs = append(techs, tech)
	}

	return techs
}
