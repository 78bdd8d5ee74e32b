package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type PromotionController struct {
	DB *gorm.DB
}

func NewPromotionController(db *gorm.DB) *PromotionController {
	return &PromotionController{DB: db}
}

type promotionRequest struct {
	Code          *string          `json:"code"`
	Description   *string          `json:"description"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	ExpiresAt     *time.Time       `json:"expires_at"`
	IsActive      *bool            `json:"is_active"`
}

// apply copies the request onto p and checks the resulting discount.
func (r promotionRequest) apply(p *models.Promotion) error {
	if r.Code != nil {
		p.Code = strings.ToUpper(strings.TrimSpace(*r.Code))
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.DiscountType != nil {
		dt, err := models.ParseDiscountType(*r.DiscountType)
		if err != nil {
			return err
		}
		p.DiscountType = dt
	}
	if r.DiscountValue != nil {
		p.DiscountValue = *r.DiscountValue
	}
	if r.ExpiresAt != nil {
		t := r.ExpiresAt.UTC()
		p.ExpiresAt = &t
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}

	if p.Code == "" {
		return errors.New("code is required")
	}
	if p.DiscountValue.IsNegative() {
		return errors.New("discount_value must not be negative")
	}
	switch p.DiscountType {
	case models.DiscountPercent:
		if p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return errors.New("percent discount_value must be between 0 and 100")
		}
	case models.DiscountAmount:
	default:
		return errors.New("discount_type is required")
	}
	return nil
}

func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo := models.Promotion{IsActive: true}
	if err := req.apply(&promo); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.WithContext(c.Request.Context()).Create(&promo).Error; err != nil {
		respondServiceError(c, storage("create promotion", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Promotion created", promo)
}

func (pc *PromotionController) GetAllPromotions(c *gin.Context) {
	var promos []models.Promotion
	if err := pc.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&promos).Error; err != nil {
		respondServiceError(c, storage("list promotions", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of promotions", promos)
}

func (pc *PromotionController) GetPromotion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var promo models.Promotion
	if err := pc.DB.WithContext(c.Request.Context()).First(&promo, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "promotion", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion detail", promo)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req promotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := pc.DB.WithContext(c.Request.Context())
	var promo models.Promotion
	if err := db.First(&promo, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "promotion", id))
		return
	}
	if err := req.apply(&promo); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := db.Save(&promo).Error; err != nil {
		respondServiceError(c, storage("update promotion", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion updated", promo)
}

// DeletePromotion detaches the promotion from orders before removing it.
// Totals of those orders are left as they are until their next recompute.
func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := pc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("promo_id = ?", id).Update("promo_id", nil).Error; err != nil {
			return storage("detach promotion", err)
		}
		result := tx.Delete(&models.Promotion{}, id)
		if result.Error != nil {
			return storage("delete promotion", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("promotion %d: %w", id, services.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion deleted", gin.H{"id": id})
}
