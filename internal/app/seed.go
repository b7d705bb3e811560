package app

import (
	"context"
	"fmt"

	"travelagency/internal/domain"
	"travelagency/internal/modules/auth"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	// Catalog adds sample destinations, hotels, fleets, packages and consumables
	// when the destinations table is empty.
	Catalog bool
}

type SeedResult struct {
	AdminCreated bool
	Destinations int
	Packages     int
}

// Seed creates the admin account if missing and optionally a sample catalog. Running it
// twice changes nothing.
func (a *App) Seed(ctx context.Context, opts SeedOptions) (SeedResult, error) {
	var res SeedResult
	db := a.DB.WithContext(ctx)

	if opts.AdminEmail != "" {
		hash, err := auth.HashPassword(opts.AdminPassword)
		if err != nil {
			return res, fmt.Errorf("hash admin password: %w", err)
		}
		name := opts.AdminName
		if name == "" {
			name = "Administrator"
		}
		admin := domain.AdminUser{Name: name, Email: opts.AdminEmail, PasswordHash: hash}
		tx := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&admin)
		if tx.Error != nil {
			return res, fmt.Errorf("create admin: %w", tx.Error)
		}
		res.AdminCreated = tx.RowsAffected > 0
	}

	if !opts.Catalog {
		return res, nil
	}

	var count int64
	if err := db.Model(&domain.Destination{}).Count(&count).Error; err != nil {
		return res, err
	}
	if count > 0 {
		a.Log.WithField("destinations", count).Info("catalog already seeded")
		return res, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, s := range sampleCatalog() {
			dest := s.destination
			if err := tx.Create(&dest).Error; err != nil {
				return fmt.Errorf("destination %s: %w", dest.Name, err)
			}
			res.Destinations++

			hotel := s.hotel
			hotel.DestinationID = &dest.ID
			if err := tx.Create(&hotel).Error; err != nil {
				return fmt.Errorf("hotel %s: %w", hotel.Name, err)
			}
			fleet := s.fleet
			if err := tx.Create(&fleet).Error; err != nil {
				return fmt.Errorf("fleet %s: %w", fleet.Name, err)
			}

			for _, p := range s.packages {
				p.DestinationID = &dest.ID
				p.HotelID = &hotel.ID
				p.FleetID = &fleet.ID
				if err := tx.Create(&p).Error; err != nil {
					return fmt.Errorf("package %s: %w", p.Name, err)
				}
				res.Packages++
			}
		}

		consumables := []domain.Consumable{
			{Name: "Travel kit", Unit: "pcs", Price: 75000, Stock: 200},
			{Name: "Lunch box", Unit: "box", Price: 45000, Stock: 500},
			{Name: "Batik souvenir", Unit: "pcs", Price: 120000, Stock: 80},
		}
		return tx.Create(&consumables).Error
	})
	if err != nil {
		return res, fmt.Errorf("seed catalog: %w", err)
	}
	return res, nil
}

type seedDestination struct {
	destination domain.Destination
	hotel       domain.Hotel
	fleet       domain.Fleet
	packages    []domain.TourPackage
}

func sampleCatalog() []seedDestination {
	return []seedDestination{
		{
			destination: domain.Destination{Name: "Bali", Slug: "bali", Country: "Indonesia", City: "Denpasar"},
			hotel:       domain.Hotel{Name: "Ubud Garden Resort", Stars: 4, PricePerNight: 950000},
			fleet:       domain.Fleet{Name: "Hiace Premio", Type: "minibus", Capacity: 14, PlateNumber: "DK 1234 AB"},
			packages: []domain.TourPackage{
				{Name: "Bali Escape 4D3N", Price: 3500000, DurationDays: 4, MaxParticipant: 14, IsActive: true},
				{Name: "Nusa Penida Day Trip", Price: 850000, DurationDays: 1, MaxParticipant: 10, IsActive: true},
			},
		},
		{
			destination: domain.Destination{Name: "Yogyakarta", Slug: "yogyakarta", Country: "Indonesia", City: "Yogyakarta"},
			hotel:       domain.Hotel{Name: "Malioboro Heritage", Stars: 3, PricePerNight: 550000},
			fleet:       domain.Fleet{Name: "Big Bus 45", Type: "bus", Capacity: 45, PlateNumber: "AB 4567 CD"},
			packages: []domain.TourPackage{
				{Name: "Borobudur Sunrise 3D2N", Price: 2250000, DurationDays: 3, MaxParticipant: 40, IsActive: true},
			},
		},
	}
}
