package services

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"tintpro-backend/models"

	"go.uber.org/zap"
)

const unknownServiceName = "Unknown"

// PriceRow is one joined price record as returned by the data API:
// prices -> vehicle_types (filtered) -> services -> categories.
type PriceRow struct {
	ID       int64            `json:"id"`
	Amount   Amount           `json:"amount"`
	SquareID *string          `json:"square_id"`
	Services *PriceRowService `json:"services"`
}

// Amount is a price that the data API may send either as a JSON number or
// as a numeric string (numeric columns are serialized as text). Values that
// do not parse as a finite number decode to 0.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

type PriceRowService struct {
	Name       *string           `json:"name"`
	Categories *PriceRowCategory `json:"categories"`
}

type PriceRowCategory struct {
	Slug *string `json:"slug"`
}

// PriceSource runs the filtered, joined price query for one vehicle
// category, ordered by ascending amount.
type PriceSource interface {
	FetchPrices(ctx context.Context, vehicle models.VehicleCategory) ([]PriceRow, error)
}

// Catalog lists purchasable services for a vehicle category.
type Catalog interface {
	FetchServices(ctx context.Context, vehicle models.VehicleCategory) []models.ServiceItem
}

// CatalogClient normalizes price rows into service items. Failures are
// logged and reported as an empty catalog.
type CatalogClient struct {
	source PriceSource
	logger *zap.Logger
}

func NewCatalogClient(source PriceSource, logger *zap.Logger) *CatalogClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogClient{source: source, logger: logger}
}

func (c *CatalogClient) FetchServices(ctx context.Context, vehicle models.VehicleCategory) []models.ServiceItem {
	rows, err := c.source.FetchPrices(ctx, vehicle)
	if err != nil {
		c.logger.Error("Error fetching tint prices",
			zap.String("vehicle", string(vehicle)), zap.Error(err))
		return []models.ServiceItem{}
	}

	items := make([]models.ServiceItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, c.normalize(row))
	}
	c.logger.Debug("Prices loaded",
		zap.String("vehicle", string(vehicle)), zap.Int("count", len(items)))
	return items
}

func (c *CatalogClient) normalize(row PriceRow) models.ServiceItem {
	item := models.ServiceItem{
		ID:                 row.ID,
		Name:               unknownServiceName,
		Price:              float64(row.Amount),
		ExternalBookingRef: row.SquareID,
		Category:           models.TintCarbon,
	}

	if row.Services == nil {
		return item
	}
	if row.Services.Name != nil {
		item.Name = *row.Services.Name
	}
	if row.Services.Categories != nil && row.Services.Categories.Slug != nil {
		slug := models.TintCategory(*row.Services.Categories.Slug)
		if slug.Valid() {
			item.Category = slug
		} else {
			c.logger.Warn("Unknown tint category, using carbon",
				zap.Int64("priceId", row.ID), zap.String("slug", string(slug)))
		}
	}
	return item
}
