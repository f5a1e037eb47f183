package models

import (
	"log"

	"bitbucket.org/darshanedu/insight_backend/config"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(&PerformanceRecord{})
	if err != nil {
		log.Printf("auto migration failed: %v", err)
		return
	}
	log.Println("auto migration completed")
}
