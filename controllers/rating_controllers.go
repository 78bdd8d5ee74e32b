package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type RatingController struct {
	DB *gorm.DB
}

func NewRatingController(db *gorm.DB) *RatingController {
	return &RatingController{DB: db}
}

type ratingRequest struct {
	SandwichID *uint   `json:"sandwich_id"`
	Stars      *int    `json:"stars"`
	Reason     *string `json:"reason"`
}

var errStarsRange = errors.New("stars must be between 1 and 5")

func (rc *RatingController) CreateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.SandwichID == nil || req.Stars == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("sandwich_id and stars are required"))
		return
	}
	if *req.Stars < 1 || *req.Stars > 5 {
		utils.RespondError(c, http.StatusBadRequest, errStarsRange)
		return
	}

	db := rc.DB.WithContext(c.Request.Context())
	var sandwich models.Sandwich
	if err := db.Select("id").First(&sandwich, *req.SandwichID).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "sandwich", *req.SandwichID))
		return
	}

	rating := models.Rating{SandwichID: *req.SandwichID, Stars: *req.Stars}
	if req.Reason != nil {
		rating.Reason = *req.Reason
	}
	if err := db.Create(&rating).Error; err != nil {
		respondServiceError(c, storage("create rating", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Rating created", rating)
}

// GetAllRatings lists ratings, optionally for one sandwich_id.
func (rc *RatingController) GetAllRatings(c *gin.Context) {
	q := rc.DB.WithContext(c.Request.Context()).Order("id ASC")
	if raw := c.Query("sandwich_id"); raw != "" {
		sandwichID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
			return
		}
		q = q.Where("sandwich_id = ?", sandwichID)
	}

	var ratings []models.Rating
	if err := q.Find(&ratings).Error; err != nil {
		respondServiceError(c, storage("list ratings", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ratings", ratings)
}

func (rc *RatingController) GetRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var rating models.Rating
	if err := rc.DB.WithContext(c.Request.Context()).First(&rating, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "rating", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rating detail", rating)
}

func (rc *RatingController) UpdateRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := rc.DB.WithContext(c.Request.Context())
	var rating models.Rating
	if err := db.First(&rating, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "rating", id))
		return
	}
	if req.Stars != nil {
		if *req.Stars < 1 || *req.Stars > 5 {
			utils.RespondError(c, http.StatusBadRequest, errStarsRange)
			return
		}
		rating.Stars = *req.Stars
	}
	if req.Reason != nil {
		rating.Reason = *req.Reason
	}

	if err := db.Save(&rating).Error; err != nil {
		respondServiceError(c, storage("update rating", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rating updated", rating)
}

func (rc *RatingController) DeleteRating(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := rc.DB.WithContext(c.Request.Context()).Delete(&models.Rating{}, id)
	if result.Error != nil {
		respondServiceError(c, storage("delete rating", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondServiceError(c, fmt.Errorf("rating %d: %w", id, services.ErrNotFound))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Rating deleted", gin.H{"id": id})
}
