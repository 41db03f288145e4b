package dao

const (
	ToolStatusLive       = "LIVE"
	ToolStatusComingSoon = "COMING SOON"
)

// Tool 站点工具入口
type Tool struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Description  string `gorm:"column:description;type:text;not null" json:"description"`
	Path         string `gorm:"column:path;type:varchar(255);not null" json:"path"`
	Status       string `gorm:"column:status;type:varchar(32);not null" json:"status"` // LIVE | COMING SOON
	IsHolderOnly bool   `gorm:"column:is_holder_only;default:false" json:"isHolderOnly"`
	Icon         string `gorm:"column:icon;type:varchar(64);not null" json:"icon"`
}

func (Tool) TableName() string {
	return "tools"
}

// Lore 世界观条目
type Lore struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title    string `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Content  string `gorm:"column:content;type:text;not null" json:"content"`
	Category string `gorm:"column:category;type:varchar(64);not null" json:"category"` // FERAL Prime | FANG | NULL
	Date     string `gorm:"column:date;type:varchar(32);not null" json:"date"`
}

func (Lore) TableName() string {
	return "lore"
}
