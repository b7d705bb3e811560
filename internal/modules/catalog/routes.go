package catalog

import (
	"context"

	"travelagency/internal/domain"
	"travelagency/internal/pkg/utils"
	"travelagency/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type existsChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Catalog wires one Resource per catalog table.
type Catalog struct {
	Destinations *repository.CrudRepository[domain.Destination]
	Hotels       *repository.CrudRepository[domain.Hotel]
	Fleets       *repository.CrudRepository[domain.Fleet]
	Packages     *repository.CrudRepository[domain.TourPackage]
	Consumables  *repository.CrudRepository[domain.Consumable]
	Blogs        *repository.CrudRepository[domain.Blog]
	Galleries    *repository.CrudRepository[domain.Gallery]

	log *logrus.Logger
}

func New(db *gorm.DB, log *logrus.Logger) *Catalog {
	return &Catalog{
		Destinations: repository.NewCrudRepository[domain.Destination](db),
		Hotels:       repository.NewCrudRepository[domain.Hotel](db),
		Fleets:       repository.NewCrudRepository[domain.Fleet](db),
		Packages:     repository.NewCrudRepository[domain.TourPackage](db, "Destination"),
		Consumables:  repository.NewCrudRepository[domain.Consumable](db),
		Blogs:        repository.NewCrudRepository[domain.Blog](db),
		Galleries:    repository.NewCrudRepository[domain.Gallery](db),
		log:          log,
	}
}

// RegisterRoutes mounts reads on public and writes on admin (expected to carry admin auth).
func (c *Catalog) RegisterRoutes(public, admin *gin.RouterGroup) {
	NewResource("destinations", c.Destinations,
		func(v *domain.Destination, id int64) { v.ID = id },
		func(_ context.Context, v *domain.Destination) error {
			if v.Slug == "" {
				v.Slug = utils.Slugify(v.Name)
			}
			return nil
		}, c.log).RegisterRoutes(public, admin)

	NewResource("hotels", c.Hotels,
		func(v *domain.Hotel, id int64) { v.ID = id },
		func(ctx context.Context, v *domain.Hotel) error {
			return checkRef(ctx, c.Destinations, "destinationId", v.DestinationID)
		}, c.log).RegisterRoutes(public, admin)

	NewResource("fleets", c.Fleets,
		func(v *domain.Fleet, id int64) { v.ID = id },
		nil, c.log).RegisterRoutes(public, admin)

	NewResource("packages", c.Packages,
		func(v *domain.TourPackage, id int64) { v.ID = id },
		c.preparePackage, c.log).RegisterRoutes(public, admin)

	NewResource("consumables", c.Consumables,
		func(v *domain.Consumable, id int64) { v.ID = id },
		nil, c.log).RegisterRoutes(public, admin)

	NewResource("blogs", c.Blogs,
		func(v *domain.Blog, id int64) { v.ID = id },
		func(_ context.Context, v *domain.Blog) error {
			if v.Slug == "" {
				v.Slug = utils.Slugify(v.Title)
			}
			return nil
		}, c.log).RegisterRoutes(public, admin)

	NewResource("galleries", c.Galleries,
		func(v *domain.Gallery, id int64) { v.ID = id },
		func(ctx context.Context, v *domain.Gallery) error {
			return checkRef(ctx, c.Destinations, "destinationId", v.DestinationID)
		}, c.log).RegisterRoutes(public, admin)
}

func (c *Catalog) preparePackage(ctx context.Context, v *domain.TourPackage) error {
	// the association is read-only; writes go through DestinationID
	v.Destination = nil

	if err := checkRef(ctx, c.Destinations, "destinationId", v.DestinationID); err != nil {
		return err
	}
	if err := checkRef(ctx, c.Hotels, "hotelId", v.HotelID); err != nil {
		return err
	}
	return checkRef(ctx, c.Fleets, "fleetId", v.FleetID)
}

func checkRef(ctx context.Context, repo existsChecker, field string, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := repo.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: field, ID: *id}
	}
	return nil
}
