// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"

	"tintpro-backend/models"
	"tintpro-backend/services"
	"tintpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// SetVehicleInput defines the expected JSON structure for switching vehicles
type SetVehicleInput struct {
	Vehicle string `json:"vehicle" binding:"required,oneof=coupe sedan suv"`
}

// SetModeInput defines the expected JSON structure for switching service mode
type SetModeInput struct {
	Mode string `json:"mode" binding:"required,oneof=shop mobile"`
}

// ToggleItemInput identifies a catalog entry by price id, or by name and
// category when the entry has no id.
type ToggleItemInput struct {
	ID       int64  `json:"id" binding:"min=0"`
	Name     string `json:"name"`
	Category string `json:"category" binding:"omitempty,oneof=carbon ceramic"`
}

type BookingController struct {
	Sessions *services.SessionManager
}

func NewBookingController(sessions *services.SessionManager) *BookingController {
	return &BookingController{Sessions: sessions}
}

func (b *BookingController) cart(c *gin.Context) (*services.BookingCart, bool) {
	sessionID := c.GetString(utils.SessionKey)
	if sessionID == "" {
		utils.RespondWithError(c, http.StatusUnauthorized, "Session not found in context")
		return nil, false
	}
	return b.Sessions.Cart(c.Request.Context(), sessionID), true
}

// GetBooking returns the session's booking state
func (b *BookingController) GetBooking(c *gin.Context) {
	cart, ok := b.cart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cart.State())
}

// SetVehicle switches vehicle category, clearing the cart
func (b *BookingController) SetVehicle(c *gin.Context) {
	var input SetVehicleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	cart, ok := b.cart(c)
	if !ok {
		return
	}
	if err := cart.SetVehicleCategory(c.Request.Context(), models.VehicleCategory(input.Vehicle)); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, cart.State())
}

// SetMode switches between shop and mobile service
func (b *BookingController) SetMode(c *gin.Context) {
	var input SetModeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	cart, ok := b.cart(c)
	if !ok {
		return
	}
	if err := cart.SetServiceMode(models.ServiceMode(input.Mode)); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, cart.State())
}

// ToggleItem adds or removes a catalog entry from the cart
func (b *BookingController) ToggleItem(c *gin.Context) {
	var input ToggleItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.ID == 0 && (input.Name == "" || input.Category == "") {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: id or name and category required")
		return
	}

	cart, ok := b.cart(c)
	if !ok {
		return
	}

	ref := models.ServiceItem{
		ID:       input.ID,
		Name:     input.Name,
		Category: models.TintCategory(input.Category),
	}
	selected, err := cart.ToggleAvailable(ref)
	if err != nil {
		if errors.Is(err, services.ErrUnknownItem) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update cart")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"selected": selected,
		"booking":  cart.State(),
	})
}

// GetTotal returns the derived cart total
func (b *BookingController) GetTotal(c *gin.Context) {
	cart, ok := b.cart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": cart.Total()})
}

// Proceed hands off to the external booking page
func (b *BookingController) Proceed(c *gin.Context) {
	cart, ok := b.cart(c)
	if !ok {
		return
	}
	if _, ok := cart.ProceedToBooking(); !ok {
		utils.RespondWithError(c, http.StatusConflict, "Cart is empty")
		return
	}
	c.JSON(http.StatusOK, cart.State())
}

// Return goes back to the selection view
func (b *BookingController) Return(c *gin.Context) {
	cart, ok := b.cart(c)
	if !ok {
		return
	}
	cart.ReturnToSelection()
	c.JSON(http.StatusOK, cart.State())
}
