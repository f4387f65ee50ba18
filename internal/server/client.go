package server

import (
	"context"
	"net/http"
	"time"

	"github.com/depp1024/living/internal/engine"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/logger"
	"github.com/depp1024/living/pkg/utils"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - наблюдатель по websocket: получает снимки областей и может менять масштаб.
type Client struct {
	Service   *engine.Service
	Conn      *websocket.Conn
	Send      chan api.ServerMessage
	SessionID string

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Entry
}

func NewClient(svc *engine.Service, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	id := utils.GenerateID()
	return &Client{
		Service:   svc,
		Conn:      conn,
		Send:      make(chan api.ServerMessage, 256),
		SessionID: id,
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Log.WithField("observer", id),
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Service, conn)
	client.subscribe()

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// subscribe регистрирует наблюдателя в Hub и сразу отдает текущие снимки.
func (c *Client) subscribe() {
	updates := c.Service.Hub.Register(c.SessionID)

	for _, summary := range c.Service.Areas() {
		area, err := c.Service.Area(summary.ID)
		if err != nil {
			continue
		}
		snap := area.Snapshot()
		c.Send <- api.ServerMessage{Type: api.MessageSnapshot, AreaID: area.ID, Snapshot: &snap}
	}

	// Пересылка обновлений из Hub в writePump
	go func() {
		defer close(c.Send)
		for {
			select {
			case msg, ok := <-updates:
				if !ok {
					return
				}
				select {
				case c.Send <- msg:
				case <-c.ctx.Done():
					return
				}
			case <-c.ctx.Done():
				return
			}
		}
	}()
	c.log.Info("Observer connected")
}

// readPump читает команды наблюдателя
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.Service.Hub.Unregister(c.SessionID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Observer disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg api.ClientMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("WS error")
			}
			return
		}
		if err := msg.Validate(); err != nil {
			c.reply(api.ServerMessage{Type: api.MessageError, Error: err.Error()})
			continue
		}
		// Загрузка области ждет лимит Overpass, чтение команд не блокируем
		go c.handle(msg)
	}
}

func (c *Client) handle(msg api.ClientMessage) {
	switch msg.Type {
	case api.ClientView:
		_, err := c.Service.HandleZoom(c.ctx, msg.View.ZoomStart, msg.View.ZoomEnd, toGeo(msg.View.Center))
		if err != nil {
			c.reply(api.ServerMessage{Type: api.MessageError, Error: err.Error()})
		}
	case api.ClientClear:
		c.Service.ClearAreas()
	}
}

// reply отправляет сообщение только этому наблюдателю.
func (c *Client) reply(msg api.ServerMessage) {
	c.Service.Hub.SendTo(c.SessionID, msg)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
