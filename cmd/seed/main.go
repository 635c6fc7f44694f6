package main

import (
	"github.com/shoply-api/internal/config"
	"github.com/shoply-api/internal/logger"
	"github.com/shoply-api/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 分类
	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, audio and smart devices"},
		{Name: "Lifestyle", Description: "Everyday home and living goods"},
		{Name: "Accessories", Description: "Cables, cases and add-ons"},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Name)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Name)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("name IN ?", []string{"Electronics", "Lifestyle", "Accessories"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Name] = cat.ID
	}

	// 折扣
	discounts := []models.Discount{
		{Name: "Launch Week", Description: "Opening promotion", Percent: 10, IsActive: true},
		{Name: "Clearance", Description: "End of season clearance", Percent: 30, IsActive: false},
	}
	for _, d := range discounts {
		var existing models.Discount
		if err := models.DB.Where("name = ?", d.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&d).Error; err != nil {
				stdLog.Printf("Failed to create discount %s: %v", d.Name, err)
			} else {
				stdLog.Printf("Created discount: %s", d.Name)
			}
		} else {
			stdLog.Printf("Discount already exists: %s", d.Name)
		}
	}
	var launchWeek models.Discount
	var launchWeekID *uint
	if err := models.DB.Where("name = ?", "Launch Week").First(&launchWeek).Error; err == nil {
		launchWeekID = &launchWeek.ID
	}

	// 商品与库存
	type seedProduct struct {
		product    models.Product
		quantity   int
		categories []string
	}
	seeds := []seedProduct{
		{
			product: models.Product{
				Name:        "Wireless Earbuds",
				Description: "Bluetooth 5.3 earbuds with charging case",
				Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
				Currency:    "USD",
				IsActive:    true,
				DiscountID:  launchWeekID,
			},
			quantity:   120,
			categories: []string{"Electronics", "Accessories"},
		},
		{
			product: models.Product{
				Name:        "Smart Kettle",
				Description: "Temperature controlled 1.7L kettle",
				Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.00)),
				Currency:    "USD",
				IsActive:    true,
			},
			quantity:   45,
			categories: []string{"Lifestyle"},
		},
		{
			product: models.Product{
				Name:        "USB-C Cable 2m",
				Description: "Braided 100W fast charging cable",
				Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(9.50)),
				Currency:    "USD",
				IsActive:    true,
			},
			quantity:   500,
			categories: []string{"Accessories"},
		},
	}

	for _, seed := range seeds {
		var existing models.Product
		if err := models.DB.Where("name = ?", seed.product.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", seed.product.Name)
			continue
		}
		product := seed.product
		product.Inventory = &models.Inventory{Quantity: seed.quantity}
		for _, name := range seed.categories {
			if id, ok := categoryIDs[name]; ok {
				product.Categories = append(product.Categories, models.Category{ID: id})
			}
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Name, err)
		} else {
			stdLog.Printf("Created product: %s (stock %d)", product.Name, seed.quantity)
		}
	}

	stdLog.Printf("Seed finished")
}
