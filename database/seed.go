package database

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// RecomputeFunc recalculates the totals of one order inside tx.
type RecomputeFunc func(tx *gorm.DB, orderID uint) error

// Seed inserts demo data when the sandwiches table is empty. Seeded orders
// are priced through recompute instead of carrying hand-written totals.
func Seed(db *gorm.DB, recompute RecomputeFunc) error {
	var existing models.Sandwich
	err := db.First(&existing).Error
	if err == nil {
		utils.InfoLogger.Info("Seed skipped: sandwiches already present")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		d := decimal.RequireFromString

		bread := models.Resource{Item: "Bread slices", Amount: d("200")}
		lettuce := models.Resource{Item: "Lettuce", Amount: d("150")}
		tomato := models.Resource{Item: "Tomato", Amount: d("150")}
		cheese := models.Resource{Item: "Cheese", Amount: d("100")}
		chicken := models.Resource{Item: "Chicken breast", Amount: d("80")}
		ham := models.Resource{Item: "Ham", Amount: d("80")}
		resources := []*models.Resource{&bread, &lettuce, &tomato, &cheese, &chicken, &ham}
		if err := tx.Create(resources).Error; err != nil {
			return err
		}

		club := models.Sandwich{SandwichName: "Club Sandwich", Price: d("8.50")}
		veggie := models.Sandwich{SandwichName: "Veggie Delight", Price: d("7.00")}
		kids := models.Sandwich{SandwichName: "Kids Grilled Cheese", Price: d("5.00")}
		if err := tx.Create([]*models.Sandwich{&club, &veggie, &kids}).Error; err != nil {
			return err
		}

		recipes := []models.Recipe{
			{SandwichID: club.ID, ResourceID: bread.ID, Amount: d("2")},
			{SandwichID: club.ID, ResourceID: lettuce.ID, Amount: d("1")},
			{SandwichID: club.ID, ResourceID: tomato.ID, Amount: d("1")},
			{SandwichID: club.ID, ResourceID: chicken.ID, Amount: d("1")},
			{SandwichID: veggie.ID, ResourceID: bread.ID, Amount: d("2")},
			{SandwichID: veggie.ID, ResourceID: lettuce.ID, Amount: d("2")},
			{SandwichID: veggie.ID, ResourceID: tomato.ID, Amount: d("2")},
			{SandwichID: kids.ID, ResourceID: bread.ID, Amount: d("2")},
			{SandwichID: kids.ID, ResourceID: cheese.ID, Amount: d("2")},
		}
		if err := tx.Create(&recipes).Error; err != nil {
			return err
		}

		now := Now()
		welcome := models.Promotion{
			Code: "WELCOME10", Description: "10% off first order",
			DiscountType: models.DiscountPercent, DiscountValue: d("10"),
			ExpiresAt: timePtr(now.Add(30 * 24 * time.Hour)), IsActive: true,
		}
		fiveOff := models.Promotion{
			Code: "5OFF", Description: "$5 off orders over $25",
			DiscountType: models.DiscountAmount, DiscountValue: d("5"),
			ExpiresAt: timePtr(now.Add(60 * 24 * time.Hour)), IsActive: true,
		}
		if err := tx.Create([]*models.Promotion{&welcome, &fiveOff}).Error; err != nil {
			return err
		}

		tags := []*models.Tag{
			{Name: "spicy", DisplayName: "Spicy"},
			{Name: "mild", DisplayName: "Mild"},
			{Name: "vegetarian", DisplayName: "Vegetarian"},
			{Name: "vegan", DisplayName: "Vegan"},
			{Name: "kids", DisplayName: "Kids"},
			{Name: "low_fat", DisplayName: "Low Fat"},
			{Name: "high_protein", DisplayName: "High Protein"},
			{Name: "gluten_free", DisplayName: "Gluten Free"},
			{Name: "dairy_free", DisplayName: "Dairy Free"},
		}
		if err := tx.Create(tags).Error; err != nil {
			return err
		}
		links := []models.SandwichTag{
			{SandwichID: club.ID, TagID: tags[6].ID},
			{SandwichID: veggie.ID, TagID: tags[2].ID},
			{SandwichID: veggie.ID, TagID: tags[5].ID},
			{SandwichID: kids.ID, TagID: tags[4].ID},
			{SandwichID: kids.ID, TagID: tags[1].ID},
		}
		if err := tx.Create(&links).Error; err != nil {
			return err
		}

		orders := []struct {
			order models.Order
			lines map[uint]int
		}{
			{models.Order{CustomerName: "Alice Smith", CustomerPhone: "555-123-4567", DeliveryAddress: "123 Main St",
				OrderType: models.OrderTypeTakeout, Status: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusPaid,
				OrderDate: now.Add(-72 * time.Hour), PromoID: &welcome.ID}, map[uint]int{club.ID: 1, veggie.ID: 1}},
			{models.Order{CustomerName: "Bob Johnson", CustomerPhone: "555-987-6543", DeliveryAddress: "45 Oak Ave, Apt 2B",
				OrderType: models.OrderTypeDelivery, Status: models.OrderStatusOutForDelivery, PaymentStatus: models.PaymentStatusPaid,
				OrderDate: now.Add(-48 * time.Hour)}, map[uint]int{kids.ID: 2}},
			{models.Order{CustomerName: "Carla Nguyen", CustomerPhone: "555-555-1212", DeliveryAddress: "789 Elm St",
				OrderType: models.OrderTypeDelivery, Status: models.OrderStatusPreparing, PaymentStatus: models.PaymentStatusPending,
				OrderDate: now.Add(-24 * time.Hour), PromoID: &fiveOff.ID}, map[uint]int{club.ID: 1, veggie.ID: 1}},
			{models.Order{CustomerName: "David Lee", CustomerPhone: "555-222-3333", DeliveryAddress: "22 Maple Dr",
				OrderType: models.OrderTypeTakeout, Status: models.OrderStatusReady, PaymentStatus: models.PaymentStatusPending,
				OrderDate: now.Add(-6 * time.Hour)}, map[uint]int{club.ID: 1}},
		}
		for i := range orders {
			o := &orders[i].order
			o.TrackingNumber = utils.NewTrackingNumber()
			if err := tx.Omit("OrderDetails").Create(o).Error; err != nil {
				return err
			}
			for sandwichID, amount := range orders[i].lines {
				line := models.OrderDetail{OrderID: o.ID, SandwichID: sandwichID, Amount: amount}
				if err := tx.Omit("Sandwich").Create(&line).Error; err != nil {
					return err
				}
			}
			if recompute != nil {
				if err := recompute(tx, o.ID); err != nil {
					return err
				}
			}
		}

		ratings := []models.Rating{
			{SandwichID: club.ID, Stars: 5, Reason: "Perfect balance of flavors and very fresh ingredients."},
			{SandwichID: club.ID, Stars: 4, Reason: "Tasty and filling, bread was slightly toasted more than I like."},
			{SandwichID: club.ID, Stars: 2, Reason: "Bread was soggy and the chicken was a bit dry this time."},
			{SandwichID: veggie.ID, Stars: 4, Reason: "Very fresh veggies, light but satisfying."},
			{SandwichID: veggie.ID, Stars: 2, Reason: "Too bland for my taste and the lettuce was wilted."},
			{SandwichID: veggie.ID, Stars: 1, Reason: "Almost no dressing, very dry and not enjoyable."},
			{SandwichID: kids.ID, Stars: 5, Reason: "Kids loved it, cheese was perfectly melted."},
			{SandwichID: kids.ID, Stars: 3, Reason: "Good, but the crust was a little too crunchy for the kids."},
		}
		if err := tx.Create(&ratings).Error; err != nil {
			return err
		}

		utils.InfoLogger.Info("Seed data inserted")
		return nil
	})
}

func timePtr(t time.Time) *time.Time {
	return &t
}
