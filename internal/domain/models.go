package domain

// Models lists every persisted type, in dependency order, for auto-migration.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&AdminUser{},
		&Destination{},
		&Hotel{},
		&Fleet{},
		&TourPackage{},
		&Consumable{},
		&Blog{},
		&Gallery{},
		&Booking{},
		&Review{},
		&Favorite{},
		&Order{},
		&OrderItem{},
		&Upload{},
	}
}
