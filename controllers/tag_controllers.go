package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type TagController struct {
	DB *gorm.DB
}

func NewTagController(db *gorm.DB) *TagController {
	return &TagController{DB: db}
}

type tagRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
}

// normalizeTag lowercases and snake-cases a tag name: "Low Fat" -> "low_fat".
func normalizeTag(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

func (tc *TagController) CreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || normalizeTag(*req.Name) == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	tag := models.Tag{Name: normalizeTag(*req.Name)}
	if req.DisplayName != nil {
		tag.DisplayName = *req.DisplayName
	}
	if err := tc.DB.WithContext(c.Request.Context()).Create(&tag).Error; err != nil {
		respondServiceError(c, storage("create tag", err))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Tag created", tag)
}

func (tc *TagController) GetAllTags(c *gin.Context) {
	var tags []models.Tag
	if err := tc.DB.WithContext(c.Request.Context()).Order("name ASC").Find(&tags).Error; err != nil {
		respondServiceError(c, storage("list tags", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tags", tags)
}

func (tc *TagController) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var tag models.Tag
	if err := tc.DB.WithContext(c.Request.Context()).First(&tag, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "tag", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag detail", tag)
}

func (tc *TagController) UpdateTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	db := tc.DB.WithContext(c.Request.Context())
	var tag models.Tag
	if err := db.First(&tag, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "tag", id))
		return
	}
	if req.Name != nil {
		if normalizeTag(*req.Name) == "" {
			utils.RespondError(c, http.StatusBadRequest, errors.New("name must not be empty"))
			return
		}
		tag.Name = normalizeTag(*req.Name)
	}
	if req.DisplayName != nil {
		tag.DisplayName = *req.DisplayName
	}

	if err := db.Save(&tag).Error; err != nil {
		respondServiceError(c, storage("update tag", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag updated", tag)
}

// DeleteTag also removes the tag from every sandwich.
func (tc *TagController) DeleteTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := tc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.SandwichTag{}).Error; err != nil {
			return storage("unlink tag", err)
		}
		result := tx.Delete(&models.Tag{}, id)
		if result.Error != nil {
			return storage("delete tag", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("tag %d: %w", id, services.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tag deleted", gin.H{"id": id})
}
