package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

const staffSecret = "test-secret"

func bearer(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateToken([]byte(staffSecret), "tester", role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestStaffReportsRequireToken(t *testing.T) {
	api := newTestAPI(t, staffSecret)
	seedCatalog(t, api.DB, "10")

	w, _ := api.do(http.MethodGet, "/staff/least-popular-dishes", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/staff/least-popular-dishes", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(http.MethodGet, "/staff/least-popular-dishes", nil, "Authorization", bearer(t, "chef"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	for _, role := range []string{"staff", "manager", "admin"} {
		w, _ = api.do(http.MethodGet, "/staff/least-popular-dishes", nil, "Authorization", bearer(t, role))
		assert.Equal(t, http.StatusOK, w.Code, role)
	}

	// Customer routes stay open.
	w, _ = api.do(http.MethodGet, "/sandwiches", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStaffReports(t *testing.T) {
	api := newTestAPI(t, staffSecret)
	c := seedCatalog(t, api.DB, "10")
	auth := bearer(t, "manager")

	lonely := models.Sandwich{SandwichName: "Lonely", Price: dec("4.00")}
	require.NoError(t, api.DB.Create(&lonely).Error)

	w, _ := api.do(http.MethodPost, "/order-details", map[string]interface{}{
		"order_id": c.Order.ID, "sandwich_id": c.Club.ID, "amount": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := api.do(http.MethodGet, "/staff/least-popular-dishes?limit=1", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	var popularity []services.DishPopularity
	decode(t, env, &popularity)
	require.Len(t, popularity, 1)
	assert.Equal(t, lonely.ID, popularity[0].SandwichID)
	assert.Zero(t, popularity[0].TotalOrdered)

	require.NoError(t, api.DB.Create(&[]models.Rating{
		{SandwichID: c.Club.ID, Stars: 1, Reason: "cold"},
		{SandwichID: c.Club.ID, Stars: 5, Reason: "great"},
	}).Error)

	w, env = api.do(http.MethodGet, "/staff/complaints", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	var complaints []services.Complaint
	decode(t, env, &complaints)
	require.Len(t, complaints, 1)
	assert.Equal(t, "cold", complaints[0].Reason)
	assert.Equal(t, "Club", complaints[0].SandwichName)

	w, _ = api.do(http.MethodGet, "/staff/complaints?max_stars=9", nil, "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = api.do(http.MethodGet, "/staff/daily-revenue", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	var revenue services.DailyRevenue
	decode(t, env, &revenue)
	assert.Equal(t, "2026-03-14", revenue.Date)
	assert.EqualValues(t, 1, revenue.OrderCount)
	assertDecimal(t, "10.75", revenue.Revenue)

	w, env = api.do(http.MethodGet, "/staff/daily-revenue?date=2026-03-13", nil, "Authorization", auth)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &revenue)
	assert.Zero(t, revenue.OrderCount)

	w, _ = api.do(http.MethodGet, "/staff/daily-revenue?date=14-03-2026", nil, "Authorization", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKitchenWebsocketAuth(t *testing.T) {
	api := newTestAPI(t, staffSecret)
	srv := httptest.NewServer(api.Router)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/kitchen/ws"

	_, resp, err := websocket.DefaultDialer.Dial(base, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := utils.GenerateToken([]byte(staffSecret), "cook", "chef", time.Hour)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+token, nil)
	require.NoError(t, err)
	defer conn.Close()
}

func TestKitchenReceivesLineItemEvents(t *testing.T) {
	api := newTestAPI(t, "")
	c := seedCatalog(t, api.DB, "10")
	srv := httptest.NewServer(api.Router)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/kitchen/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return api.Hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	w, _ := api.do(http.MethodPost, "/order-details", map[string]interface{}{
		"order_id": c.Order.ID, "sandwich_id": c.Club.ID, "amount": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Event string `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "line_item_added", msg.Event)
}
