package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
)

// ReconcileIDs returns the ids to add and to remove so that current becomes
// desired. Duplicates are ignored and both results are sorted.
func ReconcileIDs(current, desired []uint) (add, remove []uint) {
	have := make(map[uint]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uint]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	for id := range want {
		if !have[id] {
			add = append(add, id)
		}
	}
	for id := range have {
		if !want[id] {
			remove = append(remove, id)
		}
	}
	sort.Slice(add, func(i, j int) bool { return add[i] < add[j] })
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return add, remove
}

type SandwichService struct {
	DB *gorm.DB
}

func NewSandwichService(db *gorm.DB) *SandwichService {
	return &SandwichService{DB: db}
}

// SetTags replaces the sandwich's tag set with tagIDs. Unknown tag ids are
// rejected with ErrInvalidInput.
func SetTags(ctx context.Context, tx *gorm.DB, sandwichID uint, tagIDs []uint) error {
	db := tx.WithContext(ctx)

	desired := uniqueSorted(tagIDs)
	if len(desired) > 0 {
		var count int64
		if err := db.Model(&models.Tag{}).Where("id IN ?", desired).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(desired) {
			return fmt.Errorf("%w: unknown tag id in %v", ErrInvalidInput, desired)
		}
	}

	var current []uint
	if err := db.Model(&models.SandwichTag{}).Where("sandwich_id = ?", sandwichID).Pluck("tag_id", &current).Error; err != nil {
		return err
	}

	add, remove := ReconcileIDs(current, desired)
	if len(remove) > 0 {
		if err := db.Where("sandwich_id = ? AND tag_id IN ?", sandwichID, remove).Delete(&models.SandwichTag{}).Error; err != nil {
			return err
		}
	}
	if len(add) > 0 {
		links := make([]models.SandwichTag, len(add))
		for i, id := range add {
			links[i] = models.SandwichTag{SandwichID: sandwichID, TagID: id}
		}
		if err := db.Create(&links).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadTags fills the Tags field of every sandwich.
func LoadTags(ctx context.Context, db *gorm.DB, sandwiches []models.Sandwich) error {
	if len(sandwiches) == 0 {
		return nil
	}
	ids := make([]uint, len(sandwiches))
	for i, s := range sandwiches {
		ids[i] = s.ID
	}

	var rows []struct {
		SandwichID  uint
		ID          uint
		Name        string
		DisplayName string
	}
	if err := db.WithContext(ctx).Table("sandwich_tags").
		Select("sandwich_tags.sandwich_id, tags.id, tags.name, tags.display_name").
		Joins("JOIN tags ON tags.id = sandwich_tags.tag_id").
		Where("sandwich_tags.sandwich_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error; err != nil {
		return err
	}

	byID := make(map[uint][]models.Tag, len(sandwiches))
	for _, r := range rows {
		byID[r.SandwichID] = append(byID[r.SandwichID], models.Tag{ID: r.ID, Name: r.Name, DisplayName: r.DisplayName})
	}
	for i := range sandwiches {
		sandwiches[i].Tags = byID[sandwiches[i].ID]
		if sandwiches[i].Tags == nil {
			sandwiches[i].Tags = []models.Tag{}
		}
	}
	return nil
}

func (s *SandwichService) Create(ctx context.Context, sandwich *models.Sandwich, tagIDs []uint) error {
	if sandwich.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sandwich).Error; err != nil {
			return err
		}
		return SetTags(ctx, tx, sandwich.ID, tagIDs)
	})
	if err != nil {
		return storageErr("create sandwich", err)
	}
	return s.withTags(ctx, sandwich)
}

func (s *SandwichService) Get(ctx context.Context, id uint) (*models.Sandwich, error) {
	var sandwich models.Sandwich
	if err := s.DB.WithContext(ctx).First(&sandwich, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("sandwich", id)
		}
		return nil, storageErr("load sandwich", err)
	}
	if err := s.withTags(ctx, &sandwich); err != nil {
		return nil, err
	}
	return &sandwich, nil
}

func (s *SandwichService) List(ctx context.Context) ([]models.Sandwich, error) {
	var sandwiches []models.Sandwich
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&sandwiches).Error; err != nil {
		return nil, storageErr("list sandwiches", err)
	}
	if err := LoadTags(ctx, s.DB, sandwiches); err != nil {
		return nil, storageErr("load tags", err)
	}
	return sandwiches, nil
}

// SandwichPatch lists the fields to change. TagIDs nil keeps the tag set,
// an empty slice clears it.
type SandwichPatch struct {
	SandwichName *string
	Price        *decimal.Decimal
	TagIDs       []uint
}

func (s *SandwichService) Update(ctx context.Context, id uint, patch SandwichPatch) (*models.Sandwich, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sandwich models.Sandwich
		if err := tx.First(&sandwich, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("sandwich", id)
			}
			return err
		}

		updates := map[string]interface{}{}
		if patch.SandwichName != nil {
			updates["sandwich_name"] = *patch.SandwichName
		}
		if patch.Price != nil {
			updates["price"] = *patch.Price
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Sandwich{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if patch.TagIDs != nil {
			return SetTags(ctx, tx, id, patch.TagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("update sandwich", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a sandwich with its tags, recipes and ratings. Sandwiches
// that appear on an order are refused with ErrInUse.
func (s *SandwichService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.OrderDetail{}).Where("sandwich_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("sandwich %d is on %d order lines: %w", id, count, ErrInUse)
		}

		if err := tx.Where("sandwich_id = ?", id).Delete(&models.SandwichTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sandwich_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sandwich_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Sandwich{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound("sandwich", id)
		}
		return nil
	})
	return storageErr("delete sandwich", err)
}

// SearchByTag returns sandwiches carrying the tag with the given name.
func (s *SandwichService) SearchByTag(ctx context.Context, tag string) ([]models.Sandwich, error) {
	var sandwiches []models.Sandwich
	err := s.DB.WithContext(ctx).Model(&models.Sandwich{}).
		Joins("JOIN sandwich_tags ON sandwich_tags.sandwich_id = sandwiches.id").
		Joins("JOIN tags ON tags.id = sandwich_tags.tag_id").
		Where("tags.name = ?", tag).
		Order("sandwiches.id ASC").
		Find(&sandwiches).Error
	if err != nil {
		return nil, storageErr("search sandwiches", err)
	}
	if err := LoadTags(ctx, s.DB, sandwiches); err != nil {
		return nil, storageErr("load tags", err)
	}
	return sandwiches, nil
}

func (s *SandwichService) withTags(ctx context.Context, sandwich *models.Sandwich) error {
	list := []models.Sandwich{*sandwich}
	if err := LoadTags(ctx, s.DB, list); err != nil {
		return storageErr("load tags", err)
	}
	sandwich.Tags = list[0].Tags
	return nil
}
