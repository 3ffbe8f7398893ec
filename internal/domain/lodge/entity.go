package lodge

// GrandLodge is a reference row offered on the signup form.
type GrandLodge struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	State        string `gorm:"size:100;index;not null" json:"state"`
	Abbreviation string `gorm:"size:20" json:"abbreviation,omitempty"`
}

func (GrandLodge) TableName() string { return "grand_lodges" }
