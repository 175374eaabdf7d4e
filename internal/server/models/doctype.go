package models

type DocumentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
)

// FieldDef describes one custom metadata field of a document type.
type FieldDef struct {
	Name     string    `json:"field_name"`
	Label    string    `json:"field_label"`
	Type     FieldType `json:"field_type"`
	Required bool      `json:"is_required"`
}
