package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/db"
	"github.com/AttendFlow/AF-Backend/internal/geofence"
	"github.com/AttendFlow/AF-Backend/internal/seeds"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// CLI flags
var (
	dryRun  = flag.Bool("dry-run", false, "Generate + summarize only; no DB writes")
	confirm = flag.Bool("confirm", false, "Required to write the demo dataset")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("DATABASE_URL not set; the in-memory store seeds itself at startup")
	}

	fence := geofence.Load()
	users, records, logs := seeds.Generate(time.Now(), fence)
	fmt.Printf("Generated %d users, %d attendance records, %d audit entries\n",
		len(users), len(records), len(logs))

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if !*confirm {
		log.Fatal("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	db.Connect()
	store.Init(db.DB)

	inserted := 0
	for _, user := range users {
		var existing store.User
		err := db.DB.First(&existing, "id = ?", user.ID).Error
		if err == nil {
			log.Printf("User already exists, skipping: %s", user.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("DB error while checking user %s: %v", user.Name, err)
		}
		if err := db.DB.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", user.Name, err)
		}
		inserted++
	}
	log.Printf("Seeded %d users (%d already present)", inserted, len(users)-inserted)

	s := store.NewGormStore(db.DB)
	recInserted := 0
	for _, rec := range records {
		var existing store.AttendanceRecord
		err := db.DB.First(&existing, "id = ?", rec.ID).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("DB error while checking record %s: %v", rec.ID, err)
		}
		if err := s.CreateAttendance(rec); err != nil {
			log.Fatalf("Failed to create record %s: %v", rec.ID, err)
		}
		recInserted++
	}
	log.Printf("Seeded %d attendance records (%d already present)", recInserted, len(records)-recInserted)

	for _, entry := range logs {
		var existing store.AuditLog
		err := db.DB.First(&existing, "id = ?", entry.ID).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("DB error while checking audit entry %s: %v", entry.ID, err)
		}
		if err := s.AppendAuditLog(entry); err != nil {
			log.Fatalf("Failed to create audit entry %s: %v", entry.ID, err)
		}
	}

	log.Println("Seeding complete")
}
