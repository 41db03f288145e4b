package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var defaultTools = []Tool{
	{Name: "Evolution Machine", Description: "Fuse V1 FERALS with MILK to induce mutation.", Path: "/evolve", Status: ToolStatusLive, IsHolderOnly: true, Icon: "Zap"},
	{Name: "Generator", Description: "Generate aesthetic assets from your FERAL DNA.", Path: "/generator/index.html", Status: ToolStatusLive, Icon: "Image"},
	{Name: "Rarity Checker", Description: "Analyze trait scarcity.", Path: "/tools/rarity", Status: ToolStatusComingSoon, Icon: "BarChart"},
	{Name: "Wallet Scan", Description: "Calculate your FERAL Score.", Path: "/tools/scan", Status: ToolStatusLive, IsHolderOnly: true, Icon: "Scan"},
	{Name: "Claim Center", Description: "Redeem ecosystem rewards.", Path: "/tools/claim", Status: ToolStatusComingSoon, IsHolderOnly: true, Icon: "Gift"},
}

var defaultLore = []Lore{
	{
		Title:    "The Awakening",
		Content:  "System diagnostics indicate a massive surge in bio-digital resonance. The V1 subjects are responding to the MILK compound in unexpected ways. Initial tests suggest a 98% mutation rate.",
		Category: "FERAL Prime",
		Date:     "2024.10.15",
	},
	{
		Title:    "Subject 001 - FANG Protocol",
		Content:  "First successful integration of FANG traits. Aggression levels elevated. Neural interface compatibility nominal. Recommendation: Proceed with Phase 2.",
		Category: "FANG",
		Date:     "2024.10.18",
	},
	{
		Title:    "The Null Void",
		Content:  "Data corruption detected in Sector 7. The entities known as NULL are manifesting from the digital waste. They are not glitches; they are features of a broken system.",
		Category: "NULL",
		Date:     "2024.10.20",
	},
	{
		Title:    "Transmission #442",
		Content:  "We are watching. We are waiting. The machine is hungry.",
		Category: "FERAL Prime",
		Date:     "2024.10.22",
	},
}

// Migrate 建表 (只包含 tools 与 lore)
func (d *Dao) Migrate(ctx context.Context) error {
	if err := d.DB.WithContext(ctx).AutoMigrate(&Tool{}, &Lore{}); err != nil {
		return errors.Wrap(err, "failed on migrate content tables")
	}
	return nil
}

// SeedContent 启动时写入默认内容, 可重复执行
// 1. 修正历史数据 (删除下线工具, 更新路径与权限)
// 2. 表为空时插入默认数据
func (d *Dao) SeedContent(ctx context.Context) error {
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("name = ?", "Trait Preview").Delete(&Tool{}).Error; err != nil {
			return errors.Wrap(err, "failed on delete retired tool")
		}
		if err := tx.Model(&Tool{}).Where("name = ?", "Evolution Machine").
			Update("is_holder_only", true).Error; err != nil {
			return errors.Wrap(err, "failed on update evolution tool")
		}
		if err := tx.Model(&Tool{}).Where("name = ?", "Wallet Scan").
			Updates(map[string]interface{}{
				"is_holder_only": true,
				"status":         ToolStatusLive,
				"path":           "/tools/scan",
				"icon":           "Scan",
			}).Error; err != nil {
			return errors.Wrap(err, "failed on update wallet scan tool")
		}
		if err := tx.Model(&Tool{}).Where("name = ?", "Generator").
			Update("path", "/generator/index.html").Error; err != nil {
			return errors.Wrap(err, "failed on update generator tool")
		}

		var toolCount int64
		if err := tx.Model(&Tool{}).Count(&toolCount).Error; err != nil {
			return errors.Wrap(err, "failed on count tools")
		}
		if toolCount == 0 {
			tools := make([]Tool, len(defaultTools))
			copy(tools, defaultTools)
			if err := tx.Create(&tools).Error; err != nil {
				return errors.Wrap(err, "failed on seed tools")
			}
		}

		var loreCount int64
		if err := tx.Model(&Lore{}).Count(&loreCount).Error; err != nil {
			return errors.Wrap(err, "failed on count lore")
		}
		if loreCount == 0 {
			lore := make([]Lore, len(defaultLore))
			copy(lore, defaultLore)
			if err := tx.Create(&lore).Error; err != nil {
				return errors.Wrap(err, "failed on seed lore")
			}
		}
		return nil
	})
}
