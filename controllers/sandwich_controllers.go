package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type SandwichController struct {
	Sandwiches *services.SandwichService
}

func NewSandwichController(sandwiches *services.SandwichService) *SandwichController {
	return &SandwichController{Sandwiches: sandwiches}
}

type sandwichRequest struct {
	SandwichName *string          `json:"sandwich_name"`
	Price        *decimal.Decimal `json:"price"`
	TagIDs       []uint           `json:"tag_ids"`
}

func (sc *SandwichController) CreateSandwich(c *gin.Context) {
	var req sandwichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.SandwichName == nil || strings.TrimSpace(*req.SandwichName) == "" || req.Price == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("sandwich_name and price are required"))
		return
	}

	sandwich := &models.Sandwich{SandwichName: strings.TrimSpace(*req.SandwichName), Price: *req.Price}
	if err := sc.Sandwiches.Create(c.Request.Context(), sandwich, req.TagIDs); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Sandwich created", sandwich)
}

func (sc *SandwichController) GetAllSandwiches(c *gin.Context) {
	sandwiches, err := sc.Sandwiches.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of sandwiches", sandwiches)
}

func (sc *SandwichController) GetSandwich(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sandwich, err := sc.Sandwiches.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sandwich detail", sandwich)
}

// UpdateSandwich changes name and price. A tag_ids array replaces the tag
// set; omitting it keeps the current tags.
func (sc *SandwichController) UpdateSandwich(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req sandwichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sandwich, err := sc.Sandwiches.Update(c.Request.Context(), id, services.SandwichPatch{
		SandwichName: req.SandwichName,
		Price:        req.Price,
		TagIDs:       req.TagIDs,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sandwich updated", sandwich)
}

func (sc *SandwichController) DeleteSandwich(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := sc.Sandwiches.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sandwich deleted", gin.H{"id": id})
}

// SearchByTag answers GET /customer/menu/search?tag=vegan.
func (sc *SandwichController) SearchByTag(c *gin.Context) {
	tag := normalizeTag(c.Query("tag"))
	if tag == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("tag query parameter is required"))
		return
	}

	sandwiches, err := sc.Sandwiches.SearchByTag(c.Request.Context(), tag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sandwiches tagged "+tag, sandwiches)
}
