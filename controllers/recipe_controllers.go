package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type RecipeController struct {
	DB *gorm.DB
}

func NewRecipeController(db *gorm.DB) *RecipeController {
	return &RecipeController{DB: db}
}

type recipeRequest struct {
	SandwichID *uint            `json:"sandwich_id"`
	ResourceID *uint            `json:"resource_id"`
	Amount     *decimal.Decimal `json:"amount"`
}

// checkRefs verifies that the referenced sandwich and resource exist.
func (rc *RecipeController) checkRefs(db *gorm.DB, sandwichID, resourceID uint) error {
	var count int64
	if err := db.Model(&models.Sandwich{}).Where("id = ?", sandwichID).Count(&count).Error; err != nil {
		return storage("check sandwich", err)
	}
	if count == 0 {
		return fmt.Errorf("sandwich %d: %w", sandwichID, services.ErrNotFound)
	}
	if err := db.Model(&models.Resource{}).Where("id = ?", resourceID).Count(&count).Error; err != nil {
		return storage("check resource", err)
	}
	if count == 0 {
		return fmt.Errorf("resource %d: %w", resourceID, services.ErrNotFound)
	}
	return nil
}

func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.SandwichID == nil || req.ResourceID == nil || req.Amount == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("sandwich_id, resource_id and amount are required"))
		return
	}
	if !req.Amount.IsPositive() {
		utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be greater than zero"))
		return
	}

	db := rc.DB.WithContext(c.Request.Context())
	if err := rc.checkRefs(db, *req.SandwichID, *req.ResourceID); err != nil {
		respondServiceError(c, err)
		return
	}

	recipe := models.Recipe{SandwichID: *req.SandwichID, ResourceID: *req.ResourceID, Amount: *req.Amount}
	if err := db.Create(&recipe).Error; err != nil {
		respondServiceError(c, storage("create recipe", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Recipe created", recipe)
}

// GetAllRecipes lists recipes, optionally for one sandwich_id.
func (rc *RecipeController) GetAllRecipes(c *gin.Context) {
	q := rc.DB.WithContext(c.Request.Context()).Order("id ASC")
	if raw := c.Query("sandwich_id"); raw != "" {
		sandwichID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
			return
		}
		q = q.Where("sandwich_id = ?", sandwichID)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		respondServiceError(c, storage("list recipes", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of recipes", recipes)
}

func (rc *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := rc.DB.WithContext(c.Request.Context()).First(&recipe, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "recipe", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recipe detail", recipe)
}

func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := rc.DB.WithContext(c.Request.Context())
	var recipe models.Recipe
	if err := db.First(&recipe, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "recipe", id))
		return
	}

	if req.SandwichID != nil {
		recipe.SandwichID = *req.SandwichID
	}
	if req.ResourceID != nil {
		recipe.ResourceID = *req.ResourceID
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			utils.RespondError(c, http.StatusBadRequest, errors.New("amount must be greater than zero"))
			return
		}
		recipe.Amount = *req.Amount
	}
	if err := rc.checkRefs(db, recipe.SandwichID, recipe.ResourceID); err != nil {
		respondServiceError(c, err)
		return
	}

	if err := db.Save(&recipe).Error; err != nil {
		respondServiceError(c, storage("update recipe", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recipe updated", recipe)
}

func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := rc.DB.WithContext(c.Request.Context()).Delete(&models.Recipe{}, id)
	if result.Error != nil {
		respondServiceError(c, storage("delete recipe", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondServiceError(c, fmt.Errorf("recipe %d: %w", id, services.ErrNotFound))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recipe deleted", gin.H{"id": id})
}
