package models

type Item struct {
	ID       int    `json:"id" db:"id"`
	ItemCode string `json:"item_code" db:"item_code"`
	ItemName string `json:"item_name" db:"item_name"`
	ItemType string `json:"item_type" db:"item_type"` // manufactured | purchased
	Unit     string `json:"unit" db:"unit"`
}

func (i *Item) CreateLogView() AuditLog {
	return AuditLog{
		RecordID:   i.ID,
		RecordType: "item",
		Module:     "catalog",
	}
}
