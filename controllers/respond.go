package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"crmpro-backend/config"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// respondStoreError maps store failures from the CRM handlers onto the
// API's status codes. Missing documents render their sentinel text,
// unavailability renders 503, everything else is logged and hidden
// behind a generic 500.
func respondStoreError(c *gin.Context, err error, logPrefix string) {
	switch {
	case errors.Is(err, services.ErrLeadNotFound), errors.Is(err, services.ErrOpportunityNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, config.ErrStoreUnavailable):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("%s: %v", logPrefix, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
	}
}
