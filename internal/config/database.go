package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vezoh_backend/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB initializes the database connection using environment variables,
// runs migrations and creates the uniqueness indexes the verification
// flow depends on.
func InitDB() {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	host := GetEnv("DB_HOST", "localhost")
	port := GetEnv("DB_PORT", "5432")
	user := GetEnv("DB_USER", "postgres")
	password := GetEnv("DB_PASSWORD", "password")
	dbname := GetEnv("DB_NAME", "vezoh")
	sslmode := GetEnv("DB_SSLMODE", "disable")
	timezone := GetEnv("DB_TIMEZONE", "UTC")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	db.Exec("CREATE EXTENSION IF NOT EXISTS postgis;")

	err = db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Ride{},
		&models.Service{},
		&models.LocationPing{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	// Plate numbers must be unique across drivers, but only once set:
	// empty plates (pre-submission) are excluded. This index is what
	// makes two concurrent submissions with the same plate safe — the
	// in-code check alone would race.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_drivers_vehicle_plate_number
		ON drivers (vehicle_plate_number)
		WHERE vehicle_plate_number <> '' AND deleted_at IS NULL;`)

	DB = db
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
