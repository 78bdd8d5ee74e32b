package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
)

type DishPopularity struct {
	SandwichID   uint   `json:"sandwich_id"`
	SandwichName string `json:"sandwich_name"`
	TotalOrdered int64  `json:"total_ordered"`
}

type Complaint struct {
	RatingID     uint      `json:"rating_id"`
	SandwichID   uint      `json:"sandwich_id"`
	SandwichName string    `json:"sandwich_name"`
	Stars        int       `json:"stars"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

type DailyRevenue struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type AnalyticsService struct {
	DB *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{DB: db}
}

// LeastPopular ranks sandwiches by units ordered, fewest first. Sandwiches
// never ordered count as zero.
func (s *AnalyticsService) LeastPopular(ctx context.Context, limit int) ([]DishPopularity, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []DishPopularity
	err := s.DB.WithContext(ctx).Model(&models.Sandwich{}).
		Select("sandwiches.id AS sandwich_id, sandwiches.sandwich_name, COALESCE(SUM(order_details.amount), 0) AS total_ordered").
		Joins("LEFT JOIN order_details ON order_details.sandwich_id = sandwiches.id").
		Group("sandwiches.id, sandwiches.sandwich_name").
		Order("total_ordered ASC").Order("sandwiches.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("least popular dishes", err)
	}
	return rows, nil
}

// Complaints lists ratings with at most maxStars stars, newest first.
func (s *AnalyticsService) Complaints(ctx context.Context, maxStars int) ([]Complaint, error) {
	if maxStars < 1 || maxStars > 5 {
		return nil, ErrInvalidInput
	}

	var rows []Complaint
	err := s.DB.WithContext(ctx).Model(&models.Rating{}).
		Select("ratings.id AS rating_id, ratings.sandwich_id, sandwiches.sandwich_name, ratings.stars, ratings.reason, ratings.created_at").
		Joins("JOIN sandwiches ON sandwiches.id = ratings.sandwich_id").
		Where("ratings.stars <= ?", maxStars).
		Order("ratings.created_at DESC").Order("ratings.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, storageErr("complaints", err)
	}
	return rows, nil
}

// Revenue sums order totals for the UTC day containing day.
func (s *AnalyticsService) Revenue(ctx context.Context, day time.Time) (*DailyRevenue, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var orders []models.Order
	if err := s.DB.WithContext(ctx).
		Select("id", "total").
		Where("order_date >= ? AND order_date < ?", start, end).
		Find(&orders).Error; err != nil {
		return nil, storageErr("daily revenue", err)
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.Total)
	}
	return &DailyRevenue{
		Date:       start.Format("2006-01-02"),
		OrderCount: int64(len(orders)),
		Revenue:    revenue.Round(2),
	}, nil
}
