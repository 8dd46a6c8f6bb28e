package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/exhibition-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/exhibition-api/internal/domain"
	"github.com/vietanh2810/exhibition-api/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type feedClient struct {
	conn         *websocket.Conn
	send         chan []byte
	exhibitionID uint
	adminID      uint
}

// GateHub fans gate events out to the admins watching an exhibition's door.
type GateHub struct {
	exhibitions ExhibitionService
	upgrader    websocket.Upgrader

	clients    map[*feedClient]struct{}
	broadcast  chan domain.GateEvent
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
}

func NewGateHub(exhibitions ExhibitionService, allowedOrigins []string) *GateHub {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &GateHub{
		exhibitions: exhibitions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
		clients:    make(map[*feedClient]struct{}),
		broadcast:  make(chan domain.GateEvent, 256),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done.
func (h *GateHub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				zap.L().Error("failed to encode gate event", zap.Error(err))
				continue
			}
			for client := range h.clients {
				if client.exhibitionID != event.ExhibitionID {
					continue
				}
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Publish never blocks the caller. Events are dropped when the hub falls behind.
func (h *GateHub) Publish(event domain.GateEvent) {
	select {
	case h.broadcast <- event:
	default:
		zap.L().Warn("gate feed is full, dropping event",
			zap.String("type", event.Type),
			zap.Uint("registration_id", event.RegistrationID))
	}
}

// HandleGateFeed godoc
// @Summary      Live gate feed
// @Description  Admin only websocket. Receives one JSON event per scan or check-in correction of the exhibition.
// @Tags         registrations
// @Produce      json
// @Param        exhibitionID  path      int  true  "Exhibition ID"
// @Success      101           {string}  string  "Switching Protocols to WebSocket"
// @Failure      400           {object}  response.Err
// @Failure      401           {object}  response.Err
// @Failure      403           {object}  response.Err
// @Failure      404           {object}  response.Err
// @Failure      500           {object}  response.Err
// @Router       /exhibitions/{exhibitionID}/gate/feed [get]
// @Security BearerAuth
func (h *GateHub) HandleGateFeed(ctx *gin.Context) {
	actor, respErr := getActorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := service.Authorize(actor, domain.RoleAdmin); err != nil {
		renderServiceErr(ctx, "HandleGateFeed -> service.Authorize", err)
		return
	}

	exhibitionID, respErr := parseIDParam(ctx, "exhibitionID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if _, err := h.exhibitions.GetExhibition(ctx.Request.Context(), exhibitionID); err != nil {
		renderServiceErr(ctx, "HandleGateFeed -> h.exhibitions.GetExhibition", err)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already answered the request.
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn:         conn,
		send:         make(chan []byte, 64),
		exhibitionID: exhibitionID,
		adminID:      actor.UserID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	zap.L().Info("gate feed opened",
		zap.Uint("exhibition_id", exhibitionID),
		zap.Uint("admin_id", actor.UserID))

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the connection going away. The feed is one way.
func (c *feedClient) readPump(h *GateHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("gate feed closed unexpectedly", zap.Uint("admin_id", c.adminID), zap.Error(err))
			}
			return
		}
	}
}
