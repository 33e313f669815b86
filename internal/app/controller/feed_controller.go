package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	apperrors "github.com/yusupov7274-oss/mvp-crm-ru/internal/errors"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/middleware"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/websocket"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
)

type FeedController struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

func NewFeedController(hub *websocket.Hub) *FeedController {
	return &FeedController{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is handled at the router level
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and subscribes it to the pipeline feed.
// Authentication happens in middleware via the token query parameter.
// GET /api/v1/feed?token=...
func (ctrl *FeedController) Connect(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		apperrors.Unauthorized(c, "Требуется авторизация")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket connection", err, map[string]interface{}{
			"account_id": accountID,
		})
		return
	}

	client := &websocket.Client{
		Hub:       ctrl.hub,
		Conn:      &websocket.Conn{Conn: conn},
		AccountID: accountID,
		Send:      make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
