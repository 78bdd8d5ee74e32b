package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

// ResourceController manages raw ingredient stock. Consumption goes through
// order details, not through this controller.
type ResourceController struct {
	DB *gorm.DB
}

func NewResourceController(db *gorm.DB) *ResourceController {
	return &ResourceController{DB: db}
}

type resourceRequest struct {
	Item   *string          `json:"item"`
	Amount *decimal.Decimal `json:"amount"`
}

func (rc *ResourceController) CreateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Item == nil || strings.TrimSpace(*req.Item) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("item is required"))
		return
	}

	res := models.Resource{Item: strings.TrimSpace(*req.Item), Amount: decimal.Zero}
	if req.Amount != nil {
		res.Amount = *req.Amount
	}
	if res.Amount.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must not be negative"))
		return
	}

	if err := rc.DB.WithContext(c.Request.Context()).Create(&res).Error; err != nil {
		respondServiceError(c, storage("create resource", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Resource created", res)
}

func (rc *ResourceController) GetAllResources(c *gin.Context) {
	var resources []models.Resource
	if err := rc.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&resources).Error; err != nil {
		respondServiceError(c, storage("list resources", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of resources", resources)
}

func (rc *ResourceController) GetResource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var res models.Resource
	if err := rc.DB.WithContext(c.Request.Context()).First(&res, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "resource", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Resource detail", res)
}

func (rc *ResourceController) UpdateResource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Item != nil {
		if strings.TrimSpace(*req.Item) == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("item must not be empty"))
			return
		}
		updates["item"] = strings.TrimSpace(*req.Item)
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("amount must not be negative"))
			return
		}
		updates["amount"] = *req.Amount
	}

	db := rc.DB.WithContext(c.Request.Context())
	var res models.Resource
	if err := db.First(&res, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "resource", id))
		return
	}
	if len(updates) > 0 {
		if err := db.Model(&models.Resource{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			respondServiceError(c, storage("update resource", err))
			return
		}
	}
	if err := db.First(&res, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "resource", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Resource updated", res)
}

// DeleteResource refuses while any recipe still uses the resource.
func (rc *ResourceController) DeleteResource(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := rc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("resource_id = ?", id).Count(&count).Error; err != nil {
			return storage("count recipes", err)
		}
		if count > 0 {
			return fmt.Errorf("resource %d is used by %d recipes: %w", id, count, services.ErrInUse)
		}

		result := tx.Delete(&models.Resource{}, id)
		if result.Error != nil {
			return storage("delete resource", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("resource %d: %w", id, services.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Resource deleted", gin.H{"id": id})
}
