package services

import (
	"context"
	"fmt"

	"tintpro-backend/models"

	"gorm.io/gorm"
)

// PostgresPriceSource runs the price query directly against the catalog
// tables, for deployments that own the database.
type PostgresPriceSource struct {
	db *gorm.DB
}

func NewPostgresPriceSource(db *gorm.DB) *PostgresPriceSource {
	return &PostgresPriceSource{db: db}
}

func (s *PostgresPriceSource) FetchPrices(ctx context.Context, vehicle models.VehicleCategory) ([]PriceRow, error) {
	var prices []models.Price
	err := s.db.WithContext(ctx).
		InnerJoins("VehicleType", s.db.Where(&models.VehicleType{Slug: string(vehicle)})).
		Preload("Service.Category").
		Order("prices.amount ASC").
		Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}

	rows := make([]PriceRow, 0, len(prices))
	for _, p := range prices {
		row := PriceRow{ID: p.ID, Amount: Amount(p.Amount), SquareID: p.SquareID}
		if p.Service != nil {
			name := p.Service.Name
			row.Services = &PriceRowService{Name: &name}
			if p.Service.Category != nil {
				slug := p.Service.Category.Slug
				row.Services.Categories = &PriceRowCategory{Slug: &slug}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
