package models

// DeckFilter narrows deck listings.
type DeckFilter struct {
	OwnerID  string
	NameLike string
	Limit    int
	Offset   int
	OrderBy  string // "created_at" or "updated_at"
	OrderDir string // "ASC" or "DESC"
}
