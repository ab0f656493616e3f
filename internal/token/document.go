package token

// Note is one converted note in the import document. The always-null and
// fixed-value fields are required by the Ideaflow importer.
type Note struct {
	ID               string  `json:"id"`
	CreatedAt        string  `json:"created_at"`
	DeletedAt        *string `json:"deleted_at"`
	InsertedAt       string  `json:"inserted_at"`
	Position         string  `json:"position"`
	Tokens           []Node  `json:"tokens"`
	ReadAll          bool    `json:"read_all"`
	UpdatedAt        string  `json:"updated_at"`
	PositionInPinned *string `json:"position_in_pinned"`
	FolderID         *string `json:"folder_id"`
	ImportSource     string  `json:"import_source"`
	ImportBatch      *string `json:"import_batch"`
	ImportForeignID  *string `json:"import_foreign_id"`
}

// Document is the top-level import file: a format version tag plus all
// converted notes keyed by note identifier.
type Document struct {
	Version string          `json:"version"`
	Notes   map[string]Note `json:"notes"`
}
