package goal

import (
	"fmt"
	"regexp"
	"strings"
)

// SlugMaxLength is the maximum length of the title part of a branch name.
const SlugMaxLength = 30

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// GenerateBranchName returns the deterministic branch for a goal.
// Format: {prefix}/{goalID}-{slug}
func GenerateBranchName(prefix, goalID, title string) string {
	slug := Slugify(title)
	prefix = strings.Trim(prefix, "/")

	name := goalID
	if slug != "" {
		name = fmt.Sprintf("%s-%s", goalID, slug)
	}
	if prefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", prefix, name)
}

// Slugify lowercases the title, strips everything outside [a-z0-9\s-],
// collapses whitespace into single hyphens and truncates to SlugMaxLength.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugWhitespace.ReplaceAllString(slug, "-")

	if len(slug) > SlugMaxLength {
		slug = slug[:SlugMaxLength]
	}
	return slug
}
