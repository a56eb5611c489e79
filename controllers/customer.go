package controllers

import (
	"errors"
	"log"
	"net/http"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"crmpro-backend/config"
	"crmpro-backend/models"
	"crmpro-backend/services"
	"crmpro-backend/utils"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

// CustomerController serves the customer CRUD surface. Creation goes through
// the loyalty service so the customer and its loyalty profile land in one
// batch.
type CustomerController struct {
	Loyalty *services.LoyaltyService
}

// Create creates a new customer together with their loyalty profile.
func (ctl *CustomerController) Create(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Name and email are required")
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	id, err := ctl.Loyalty.EnrollCustomer(c.Request.Context(), services.NewCustomer{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Company: input.Company,
	})
	if err != nil {
		if errors.Is(err, config.ErrStoreUnavailable) {
			utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		log.Printf("Create customer failed: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "id": id})
}

// List retrieves all customers for dropdowns.
func (ctl *CustomerController) List(c *gin.Context) {
	client, err := config.Firestore()
	if err != nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	customers := []models.Customer{}
	iter := client.Collection(models.CollectionCustomers).Documents(c.Request.Context())
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Error fetching customers: %v", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		var customer models.Customer
		if err := snap.DataTo(&customer); err != nil {
			log.Printf("Error decoding customer %s: %v", snap.Ref.ID, err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		customer.ID = snap.Ref.ID
		customers = append(customers, customer)
	}

	c.JSON(http.StatusOK, customers)
}

// Get retrieves a single customer's details by their ID.
func (ctl *CustomerController) Get(c *gin.Context) {
	client, err := config.Firestore()
	if err != nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	customerID := c.Param("id")
	snap, err := client.Collection(models.CollectionCustomers).Doc(customerID).Get(c.Request.Context())
	if status.Code(err) == codes.NotFound {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		log.Printf("Error getting customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	var customer models.Customer
	if err := snap.DataTo(&customer); err != nil {
		log.Printf("Error decoding customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	customer.ID = snap.Ref.ID

	c.JSON(http.StatusOK, customer)
}

// Update updates a customer's details by their ID.
func (ctl *CustomerController) Update(c *gin.Context) {
	client, err := config.Firestore()
	if err != nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No update data provided")
		return
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Phone != nil {
		if *input.Phone != "" && !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		fields["phone"] = *input.Phone
	}
	if input.Company != nil {
		fields["company"] = *input.Company
	}
	if len(fields) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "No update data provided")
		return
	}

	customerID := c.Param("id")
	ref := client.Collection(models.CollectionCustomers).Doc(customerID)
	if _, err := ref.Get(c.Request.Context()); status.Code(err) == codes.NotFound {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	} else if err != nil {
		log.Printf("Error updating customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := ref.Set(c.Request.Context(), fields, firestore.MergeAll); err != nil {
		log.Printf("Error updating customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": customerID})
}

// Delete deletes a customer by their ID. The loyalty profile is left in
// place, matching the missing deletion cascade upstream.
func (ctl *CustomerController) Delete(c *gin.Context) {
	client, err := config.Firestore()
	if err != nil {
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	customerID := c.Param("id")
	ref := client.Collection(models.CollectionCustomers).Doc(customerID)
	if _, err := ref.Get(c.Request.Context()); status.Code(err) == codes.NotFound {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	} else if err != nil {
		log.Printf("Error deleting customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if _, err := ref.Delete(c.Request.Context()); err != nil {
		log.Printf("Error deleting customer %s: %v", customerID, err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "id": customerID})
}
