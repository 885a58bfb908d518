package catalog

import (
	"log"
	"net/http"
	"strconv"

	"mrplan/internal/repository"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	ItemRepo ItemRepository
	BOMRepo  BOMRepository
}

func NewCatalogHandler(itemRepo ItemRepository, bomRepo BOMRepository) *CatalogHandler {
	return &CatalogHandler{
		ItemRepo: itemRepo,
		BOMRepo:  bomRepo,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/items", h.GetItems)
	router.GET("/items/:id", h.GetItem)
	router.GET("/items/:id/bom", h.GetItemBOM)
}

func (h *CatalogHandler) GetItems(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if itemType := c.Query("type"); itemType != "" {
		conditions.AddCondition("item_type", itemType)
	}

	items, err := h.ItemRepo.GetItems(conditions)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) GetItem(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	item, err := h.ItemRepo.FindItem(itemID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get item", "details": err.Error()})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) GetItemBOM(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	bom, err := h.BOMRepo.FindActiveBOM(itemID)
	if err != nil {
		log.Println("Error executing SQL statement: ", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get BOM", "details": err.Error()})
		return
	}
	if bom == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active BOM for item"})
		return
	}

	c.JSON(http.StatusOK, bom)
}
