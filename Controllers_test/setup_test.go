package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/cache"
	"github.com/sandwichshop/ordering-api/database"
	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/router"
	"github.com/sandwichshop/ordering-api/services"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	t      *testing.T
	DB     *gorm.DB
	Hub    *kds.Hub
	Router *gin.Engine
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestAPI(t *testing.T, secret string) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	hub := kds.NewHub()
	r := router.SetupRouter(router.Deps{
		DB:          db,
		Hub:         hub,
		Pricing:     services.NewPricingEngine(decimal.RequireFromString("0.075"), func() time.Time { return testNow }),
		Idempotency: cache.NewMemoryIdempotencyStore(time.Hour),
		JWTSecret:   []byte(secret),
		CORSOrigin:  "*",
	})
	return &testAPI{t: t, DB: db, Hub: hub, Router: r}
}

func (a *testAPI) do(method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, env envelope, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, into), string(env.Data))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

// catalog seeds a Club sandwich (2 bread, 1 lettuce) priced 10.00 and one
// empty order.
type catalog struct {
	Bread, Lettuce models.Resource
	Club           models.Sandwich
	Order          models.Order
}

func seedCatalog(t *testing.T, db *gorm.DB, bread string) *catalog {
	t.Helper()
	c := &catalog{
		Bread:   models.Resource{Item: "Bread", Amount: dec(bread)},
		Lettuce: models.Resource{Item: "Lettuce", Amount: dec("50")},
		Club:    models.Sandwich{SandwichName: "Club", Price: dec("10.00")},
	}
	require.NoError(t, db.Create(&c.Bread).Error)
	require.NoError(t, db.Create(&c.Lettuce).Error)
	require.NoError(t, db.Create(&c.Club).Error)
	require.NoError(t, db.Create(&[]models.Recipe{
		{SandwichID: c.Club.ID, ResourceID: c.Bread.ID, Amount: dec("2")},
		{SandwichID: c.Club.ID, ResourceID: c.Lettuce.ID, Amount: dec("1")},
	}).Error)

	c.Order = models.Order{
		TrackingNumber: "SW-0000000000000001",
		CustomerName:   "Dana",
		OrderType:      models.OrderTypeTakeout,
		Status:         models.OrderStatusPlaced,
		PaymentStatus:  models.PaymentStatusPending,
		OrderDate:      testNow,
	}
	require.NoError(t, db.Omit("OrderDetails").Create(&c.Order).Error)
	return c
}

func stockOf(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var r models.Resource
	require.NoError(t, db.First(&r, id).Error)
	return r.Amount
}
