package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// KitchenController streams order and inventory events to kitchen displays.
type KitchenController struct {
	Hub *kds.Hub
}

func NewKitchenController(hub *kds.Hub) *KitchenController {
	return &KitchenController{Hub: hub}
}

// KDSHandler upgrades the request and keeps the client registered until it
// disconnects. Incoming messages are ignored.
func (kc *KitchenController) KDSHandler(c *gin.Context) {
	role := c.GetString("role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Websocket upgrade failed")
		return
	}

	kc.Hub.Register(ws, role)
	utils.InfoLogger.WithFields(logrus.Fields{"role": role, "clients": kc.Hub.ClientCount()}).Info("Kitchen client connected")

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	kc.Hub.Unregister(ws)
	utils.InfoLogger.WithField("role", role).Info("Kitchen client disconnected")
}
