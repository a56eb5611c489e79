package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmpro-backend/models"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// CreateTicketInput defines the expected JSON structure for opening a ticket
type CreateTicketInput struct {
	CustomerID string `json:"customer_id" binding:"required"`
	Issue      string `json:"issue" binding:"required"`
	Priority   string `json:"priority"`
}

// TicketController handles the support ticket endpoints.
type TicketController struct {
	Store services.CRMStore
}

// recentTicketLimit caps how many tickets the list endpoint returns.
const recentTicketLimit = 20

// List returns the most recent support tickets, newest first.
func (ctl *TicketController) List(c *gin.Context) {
	tickets, err := ctl.Store.ListTickets(c.Request.Context(), recentTicketLimit)
	if err != nil {
		respondStoreError(c, err, "Error fetching tickets")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// Create opens a support ticket with a 24-hour SLA deadline.
func (ctl *TicketController) Create(c *gin.Context) {
	var input CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing required fields: customer_id, issue")
		return
	}
	if input.Priority == "" {
		input.Priority = models.TicketPriorityDefault
	}

	ticket := models.Ticket{
		CustomerID:  input.CustomerID,
		Issue:       input.Issue,
		Status:      models.TicketStatusOpen,
		Priority:    input.Priority,
		SLADeadline: time.Now().UTC().Add(models.TicketSLA).Format(time.RFC3339),
	}

	id, err := ctl.Store.CreateTicket(c.Request.Context(), &ticket)
	if err != nil {
		respondStoreError(c, err, "Error creating support ticket")
		return
	}

	log.Printf("Ticket created: %s", id)

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"ticket_id":    id,
		"customer_id":  ticket.CustomerID,
		"sla_deadline": ticket.SLADeadline,
		"status":       ticket.Status,
		"priority":     ticket.Priority,
	})
}
