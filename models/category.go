package models

// CategoryRow is a flat category as listed by the backend.
type CategoryRow struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name,omitempty"`
	Title    string     `json:"title,omitempty"`
	Slug     string     `json:"slug,omitempty"`
	ParentID FlexString `json:"parent_id,omitempty"`
}

// CategoryNode is a node of the two-level export category tree.
type CategoryNode struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	ParentID *string        `json:"parentId"`
	Children []CategoryNode `json:"children"`
}

// ExportCategory is one entry of the static product catalog used by the wizard.
type ExportCategory struct {
	ID            string   `json:"id"`
	Label         string   `json:"label"`
	Subcategories []string `json:"subcategories"`
}
