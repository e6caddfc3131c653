package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateOrder asks the payment gateway for a new order and returns the
// gateway's order object as-is.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req struct {
		Amount   int64             `json:"amount" binding:"required"`
		Currency string            `json:"currency"`
		Receipt  string            `json:"receipt"`
		Notes    map[string]string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := h.Payments.CreateOrder(c.Request.Context(), req.Amount, req.Currency, req.Receipt, req.Notes)
	if err != nil {
		log.Printf("CreateOrder: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, order)
}
