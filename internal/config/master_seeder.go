package config

import (
	"log"

	"clinicsales/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	// Seed Regions
	if err := seedRegions(db); err != nil {
		return err
	}

	// Seed Clinics
	if err := seedClinics(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedRegions(db *gorm.DB) error {
	regions := []models.Region{
		{Name: "Marmara"},
		{Name: "Aegean"},
		{Name: "Central Anatolia"},
		{Name: "Mediterranean"},
	}

	for _, r := range regions {
		var existing models.Region
		if err := db.Where("name = ?", r.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&r).Error; err != nil {
					return err
				}
				log.Printf("   Created region: %s", r.Name)
			}
		}
	}
	return nil
}

func seedClinics(db *gorm.DB) error {
	// Clinics are keyed to regions by name so reseeding stays idempotent
	clinicsByRegion := map[string][]models.Clinic{
		"Marmara": {
			{Name: "Istanbul Dental Center", ContactName: "Dr. Ayşe Kaya", Phone: "+90 212 555 0101", IsActive: true},
			{Name: "Bursa Aesthetic Clinic", ContactName: "Dr. Mehmet Demir", Phone: "+90 224 555 0102", IsActive: true},
		},
		"Aegean": {
			{Name: "Izmir Medical Group", ContactName: "Dr. Elif Yılmaz", Phone: "+90 232 555 0103", IsActive: true},
		},
		"Central Anatolia": {
			{Name: "Ankara Health Clinic", ContactName: "Dr. Can Öztürk", Phone: "+90 312 555 0104", IsActive: true},
		},
		"Mediterranean": {
			{Name: "Antalya Care Center", ContactName: "Dr. Zeynep Arslan", Phone: "+90 242 555 0105", IsActive: true},
		},
	}

	for regionName, clinics := range clinicsByRegion {
		var region models.Region
		if err := db.Where("name = ?", regionName).First(&region).Error; err != nil {
			continue // Region not seeded, skip its clinics
		}

		for _, c := range clinics {
			var existing models.Clinic
			if err := db.Where("name = ?", c.Name).First(&existing).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					c.RegionID = region.ID
					if err := db.Create(&c).Error; err != nil {
						return err
					}
					log.Printf("   Created clinic: %s", c.Name)
				}
			}
		}
	}
	return nil
}
