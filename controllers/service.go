// controllers/service.go
package controllers

import (
	"net/http"

	"tintpro-backend/models"
	"tintpro-backend/services"
	"tintpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type ServiceController struct {
	Catalog services.Catalog
}

func NewServiceController(catalog services.Catalog) *ServiceController {
	return &ServiceController{Catalog: catalog}
}

// GetServices lists the tint services for a vehicle category. A failed
// lookup is reported as an empty list.
func (s *ServiceController) GetServices(c *gin.Context) {
	vehicle := models.VehicleCategory(c.DefaultQuery("vehicle", string(models.VehicleSedan)))
	if !vehicle.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle category")
		return
	}

	items := s.Catalog.FetchServices(c.Request.Context(), vehicle)
	c.JSON(http.StatusOK, gin.H{
		"vehicle":         vehicle,
		"services":        items,
		"carbonServices":  models.FilterByCategory(items, models.TintCarbon),
		"ceramicServices": models.FilterByCategory(items, models.TintCeramic),
	})
}
