package domain

// Tag is one entry of a repository's tag listing: a stable name pointing at
// an exact revision.
type Tag struct {
	Name string
	ID   string
}
