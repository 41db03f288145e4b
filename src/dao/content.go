package dao

import (
	"context"

	"github.com/pkg/errors"
)

// QueryTools 查询全部工具, 按 id 升序
func (d *Dao) QueryTools(ctx context.Context) ([]Tool, error) {
	var tools []Tool
	if err := d.DB.WithContext(ctx).Table(Tool{}.TableName()).
		Order("id asc").
		Find(&tools).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query tools")
	}
	return tools, nil
}

// QueryLore 查询全部世界观条目, 按 id 升序
func (d *Dao) QueryLore(ctx context.Context) ([]Lore, error) {
	var lore []Lore
	if err := d.DB.WithContext(ctx).Table(Lore{}.TableName()).
		Order("id asc").
		Find(&lore).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query lore")
	}
	return lore, nil
}
