package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/auth"
	"github.com/stylehub/backoffice-api/config"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"github.com/stylehub/backoffice-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	if err := seedRoles(db); err != nil {
		log.Fatalf("role seeding failed: %v", err)
	}
	if err := bootstrapSuperAdmin(db, cfg); err != nil {
		log.Fatalf("super admin bootstrap failed: %v", err)
	}

	for _, dir := range []string{cfg.UploadDir, cfg.InvoiceDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("cannot create %s: %v", dir, err)
		}
	}

	inv := inventory.New(inventory.Config{LowStockThreshold: cfg.LowStockThreshold})

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
	}))

	r.Static("/uploads", cfg.UploadDir)

	routes.SetupRoutes(r, db, cfg, inv)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func initDatabase(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.Administrator{},
		&models.Role{},
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.ProductImage{},
		&models.Warehouse{},
		&models.WarehouseStock{},
		&models.Order{},
		&models.OrderItem{},
		&models.Return{},
		&models.Payment{},
		&models.Invoice{},
		&models.InventoryLog{},
		&models.Promotion{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []string{
		models.RoleSuperAdmin,
		models.RoleOrderManager,
		models.RoleInventoryManager,
		models.RoleProductManager,
	} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// bootstrapSuperAdmin creates the first administrator from env config
// so a fresh deployment is not locked out.
func bootstrapSuperAdmin(db *gorm.DB, cfg config.Config) error {
	var count int64
	if err := db.Model(&models.Administrator{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		log.Println("no administrators and no bootstrap credentials configured")
		return nil
	}
	hash, err := auth.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}
	admin := models.Administrator{
		Name:         cfg.BootstrapAdminName,
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		IsSuperAdmin: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("bootstrap super admin %s created", admin.Email)
	return nil
}
