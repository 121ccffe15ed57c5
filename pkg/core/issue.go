package core

import (
	"bufio"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoOrganization is returned by ExtractOrganization when the issue body
// names no organization at all. An explicit but invalid name is a different
// error, so callers can fall back to a default only in the former case.
var ErrNoOrganization = errors.New("no organization name found in issue body")

// orgNameRegex matches valid GitHub organization logins: alphanumeric with
// single hyphens, no leading or trailing hyphen.
var orgNameRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)

var orgKeyRegex = regexp.MustCompile(`(?i)^(?:org|organization)\s*:\s*(.+)$`)

const maxOrgNameLength = 39

// MatchesTrigger reports whether an issue title matches the configured
// trigger title. Comparison ignores surrounding whitespace and case.
func MatchesTrigger(title, trigger string) bool {
	return strings.EqualFold(strings.TrimSpace(title), strings.TrimSpace(trigger))
}

// ExtractOrganization pulls the target organization name out of an issue
// body. It accepts an "org: name" (or "organization: name") line anywhere in
// the body, or a body that consists of nothing but the organization name.
func ExtractOrganization(body string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))

	var bare string
	var nonEmptyLines int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := orgKeyRegex.FindStringSubmatch(line); m != nil {
			name := cleanOrgName(m[1])
			if !validOrgName(name) {
				return "", fmt.Errorf("invalid organization name %q in issue body", name)
			}
			return name, nil
		}

		bare = cleanOrgName(line)
		nonEmptyLines++
	}

	if nonEmptyLines == 1 && validOrgName(bare) {
		return bare, nil
	}

	return "", ErrNoOrganization
}

func validOrgName(name string) bool {
	return name != "" && len(name) <= maxOrgNameLength && orgNameRegex.MatchString(name)
}

// cleanOrgName strips the markdown emphasis and @-mention decoration users
// tend to wrap names in.
func cleanOrgName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`*_")
	s = strings.TrimPrefix(s, "@")
	return strings.TrimSpace(s)
}
