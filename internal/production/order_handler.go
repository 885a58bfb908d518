package production

import (
	"log"
	"net/http"
	"strconv"

	"mrplan/internal/repository"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	OrderRepo OrderRepository
}

func NewOrderHandler(orderRepo OrderRepository) *OrderHandler {
	return &OrderHandler{OrderRepo: orderRepo}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/production/orders", h.GetOrders)
	router.GET("/production/orders/:id", h.GetOrder)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if status := c.Query("status"); status != "" {
		conditions.AddCondition("status", status)
	}
	if itemID := c.Query("item_id"); itemID != "" {
		id, err := strconv.Atoi(itemID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item_id parameter, must be an integer"})
			return
		}
		conditions.AddCondition("item_id", id)
	}

	orders, err := h.OrderRepo.GetOrders(conditions)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get production orders", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil || orderID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	order, err := h.OrderRepo.GetOrder(orderID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get production order", "details": err.Error()})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Production order not found"})
		return
	}

	c.JSON(http.StatusOK, order)
}
