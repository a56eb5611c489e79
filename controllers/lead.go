package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmpro-backend/models"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// CaptureLeadInput defines the expected JSON structure for capturing a lead
type CaptureLeadInput struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required"`
	Source string `json:"source" binding:"required"`
}

// AssignLeadInput defines the expected JSON structure for assigning a lead
type AssignLeadInput struct {
	RepID   string `json:"rep_id"`
	RepName string `json:"rep_name"`
}

// LeadController handles lead capture and the lead lifecycle.
type LeadController struct {
	Store services.CRMStore
}

// Capture records a new inbound lead.
func (ctl *LeadController) Capture(c *gin.Context) {
	var input CaptureLeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Name, email, and source are required")
		return
	}

	lead := models.Lead{
		Name:   input.Name,
		Email:  input.Email,
		Source: input.Source,
		Status: models.LeadStatusNew,
	}

	id, err := ctl.Store.CreateLead(c.Request.Context(), &lead)
	if err != nil {
		respondStoreError(c, err, "Capture lead failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// Convert converts an existing lead into a sales opportunity.
func (ctl *LeadController) Convert(c *gin.Context) {
	leadID := c.Param("id")
	ctx := c.Request.Context()

	lead, err := ctl.Store.GetLead(ctx, leadID)
	if err != nil {
		respondStoreError(c, err, fmt.Sprintf("Error converting lead %s", leadID))
		return
	}

	if err := ctl.Store.MarkLeadConverted(ctx, leadID); err != nil {
		respondStoreError(c, err, fmt.Sprintf("Error converting lead %s", leadID))
		return
	}

	opportunity := models.Opportunity{
		LeadID: leadID,
		Name:   lead.Name,
		Email:  lead.Email,
		Source: lead.Source,
		Stage:  models.StageQualification,
		Amount: 0.0,
	}
	opportunityID, err := ctl.Store.CreateOpportunity(ctx, &opportunity)
	if err != nil {
		respondStoreError(c, err, fmt.Sprintf("Error converting lead %s", leadID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        fmt.Sprintf("Lead %s converted to Opportunity.", leadID),
		"opportunity_id": opportunityID,
	})
}

// Assign assigns an existing lead to a sales representative.
func (ctl *LeadController) Assign(c *gin.Context) {
	var input AssignLeadInput
	_ = c.ShouldBindJSON(&input)
	if input.RepID == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Sales rep ID (rep_id) is required")
		return
	}
	if input.RepName == "" {
		input.RepName = "Unspecified"
	}

	leadID := c.Param("id")
	if err := ctl.Store.AssignLead(c.Request.Context(), leadID, input.RepID, input.RepName); err != nil {
		respondStoreError(c, err, fmt.Sprintf("Error assigning lead %s", leadID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Lead %s assigned to %s (%s)", leadID, input.RepName, input.RepID),
	})
}
