package domain

import "strings"

// CommandTemplate is a user-configured command line with tag placeholders.
// {revisionId}, {rootDir} and {tagName} are substituted verbatim with no
// quoting or escaping; template content is trusted as written.
type CommandTemplate string

// Render substitutes the placeholders for one tag.
func (t CommandTemplate) Render(revisionID, rootDir, tagName string) string {
	return strings.NewReplacer(
		"{revisionId}", revisionID,
		"{rootDir}", rootDir,
		"{tagName}", tagName,
	).Replace(string(t))
}
