package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmpro-backend/models"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// UpdateOpportunityInput defines the expected JSON structure for a stage change
type UpdateOpportunityInput struct {
	Stage string `json:"stage"`
}

// OpportunityController handles pipeline stage changes.
type OpportunityController struct {
	Store services.CRMStore
}

// UpdateStatus moves an opportunity through the pipeline. Won and Lost
// additionally stamp the close time.
func (ctl *OpportunityController) UpdateStatus(c *gin.Context) {
	var input UpdateOpportunityInput
	_ = c.ShouldBindJSON(&input)
	if input.Stage == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Stage is required in the request body")
		return
	}
	if !models.ValidOpportunityStage(input.Stage) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid stage provided")
		return
	}

	opportunityID := c.Param("id")
	err := ctl.Store.UpdateOpportunityStage(c.Request.Context(), opportunityID, input.Stage, models.ClosedStage(input.Stage))
	if err != nil {
		respondStoreError(c, err, fmt.Sprintf("Error updating opportunity %s", opportunityID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Opportunity %s status updated to %s", opportunityID, input.Stage),
	})
}
