package model

import (
	"gorm.io/gorm"
)

var defaultCategories = []ServiceCategory{
	{Name: "ไฟฟ้า", Description: "งานไฟฟ้า เดินสาย ซ่อมระบบไฟ", Icon: "⚡"},
	{Name: "ประปา", Description: "งานประปา ท่อน้ำ สุขภัณฑ์", Icon: "🚿"},
	{Name: "แอร์", Description: "ติดตั้ง ล้าง ซ่อมเครื่องปรับอากาศ", Icon: "❄️"},
	{Name: "ทำความสะอาด", Description: "ทำความสะอาดบ้านและสำนักงาน", Icon: "🧹"},
	{Name: "ซ่อมทั่วไป", Description: "งานซ่อมแซมทั่วไปในบ้าน", Icon: "🔧"},
	{Name: "จัดสวน", Description: "จัดสวน ตัดแต่งต้นไม้", Icon: "🌿"},
}

// SeedCategories inserts the reference categories if they are missing.
// Idempotent: matched by unique name.
func SeedCategories(db *gorm.DB) error {
	for _, c := range defaultCategories {
		var existing ServiceCategory
		if err := db.Where(ServiceCategory{Name: c.Name}).
			Attrs(ServiceCategory{Description: c.Description, Icon: c.Icon}).
			FirstOrCreate(&existing).Error; err != nil {
			return err
		}
	}
	return nil
}
