package httpt

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tammimikun/kids-worksheet-store/docs" // swagger spec
)

// @title           Kids Worksheet Store Payment API
// @version         1.0
// @description     Snap transaction creation, status checks and the Midtrans payment notification webhook.
// @contact.name    Kids Worksheet Store
// @contact.email   noreply@kidsworksheet.store
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
func (h *PaymentHandler) setupRoutes() {
	h.router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	h.router.GET("/", h.rootHandler)

	h.router.POST("/create-transaction", h.createTransactionHandler)
	h.router.GET("/check-status", h.checkStatusHandler)

	h.router.POST("/payment-webhook", h.webhookHandler)
	// Some gateway dashboards were configured with the bare service URL.
	h.router.POST("/", h.webhookHandler)

	if h.links != nil {
		h.router.GET("/download", h.downloadHandler)
	}

	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
