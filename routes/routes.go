package routes

import (
	"crmpro-backend/config"
	"crmpro-backend/controllers"
	"crmpro-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(loyalty *services.LoyaltyService, crm services.CRMStore) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	customerController := &controllers.CustomerController{Loyalty: loyalty}
	loyaltyController := &controllers.LoyaltyController{Service: loyalty}
	leadController := &controllers.LeadController{Store: crm}
	opportunityController := &controllers.OpportunityController{Store: crm}
	ticketController := &controllers.TicketController{Store: crm}
	dashboardController := &controllers.DashboardController{Store: crm}

	api := r.Group("/api")
	{
		// Customer routes
		api.POST("/customer", customerController.Create)
		api.GET("/customers", customerController.List)
		customer := api.Group("/customer")
		{
			customer.GET("/:id", customerController.Get)
			customer.PUT("/:id", customerController.Update)
			customer.DELETE("/:id", customerController.Delete)
		}

		// Lead and opportunity routes
		lead := api.Group("/lead")
		{
			lead.POST("", leadController.Capture)
			lead.POST("/:id/convert", leadController.Convert)
			lead.PUT("/:id/assign", leadController.Assign)
		}
		api.PUT("/opportunity/:id/status", opportunityController.UpdateStatus)

		// Support ticket routes
		tickets := api.Group("/tickets")
		{
			tickets.GET("", ticketController.List)
			tickets.POST("", ticketController.Create)
		}

		// Loyalty routes
		loyaltyGroup := api.Group("/loyalty")
		{
			loyaltyGroup.GET("/:customerId", loyaltyController.GetProfile)
			loyaltyGroup.POST("/:customerId/redeem", loyaltyController.Redeem)
			loyaltyGroup.POST("/:customerId/use-referral", loyaltyController.UseReferral)
		}
		api.POST("/simulate-purchase", loyaltyController.SimulatePurchase)

		// Dashboard routes
		api.GET("/sales-kpis", dashboardController.GetSalesKPIs)
		api.GET("/customer-kpis", dashboardController.GetCustomerKPIs)
		api.GET("/ticket-metrics", dashboardController.GetTicketMetrics)
	}

	return r
}
