package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/artikelin/api/internal/model"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client represents a WebSocket subscriber to one job
type Client struct {
	JobID uuid.UUID
	Send  chan []byte
}

func NewClient(jobID uuid.UUID) *Client {
	return &Client{JobID: jobID, Send: make(chan []byte, sendBufferSize)}
}

// Hub fans job updates out to the clients watching each job
type Hub struct {
	clients map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}

	log *logrus.Logger
}

// BroadcastMessage represents a message to broadcast
type BroadcastMessage struct {
	JobID   uuid.UUID
	Message []byte
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client registry until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			return

		case client := <-h.register:
			if h.clients[client.JobID] == nil {
				h.clients[client.JobID] = make(map[*Client]bool)
			}
			h.clients[client.JobID][client] = true
			h.log.WithField("job_id", client.JobID).Debug("WebSocket client registered")

		case client := <-h.unregister:
			h.remove(client)
			h.log.WithField("job_id", client.JobID).Debug("WebSocket client unregistered")

		case msg := <-h.broadcast:
			for client := range h.clients[msg.JobID] {
				select {
				case client.Send <- msg.Message:
				default:
					// slow consumer
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.JobID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.JobID)
	}
}

// Register subscribes client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastStatus sends a status change to all job subscribers
func (h *Hub) BroadcastStatus(jobID uuid.UUID, jobType model.JobType, status model.JobStatus) {
	h.publish(jobID, model.WSStatusMessage{
		Type:    model.WSMessageTypeStatus,
		JobID:   jobID,
		JobType: jobType,
		Status:  status,
	})
}

// BroadcastComplete sends the finished article reference to all job subscribers
func (h *Hub) BroadcastComplete(jobID uuid.UUID, article *model.ArticleRef) {
	h.publish(jobID, model.WSCompleteMessage{
		Type:    model.WSMessageTypeComplete,
		JobID:   jobID,
		Status:  model.JobStatusCompleted,
		Article: article,
	})
}

// BroadcastError sends a failure to all job subscribers
func (h *Hub) BroadcastError(jobID uuid.UUID, code, message string) {
	h.publish(jobID, model.WSErrorMessage{
		Type:   model.WSMessageTypeError,
		JobID:  jobID,
		Status: model.JobStatusFailed,
		Error: model.WSError{
			Code:    code,
			Message: message,
		},
	})
}

// publish never blocks the job runner; updates are dropped when the hub
// is saturated since clients can always poll the job.
func (h *Hub) publish(jobID uuid.UUID, msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal websocket message")
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{JobID: jobID, Message: data}:
	default:
		h.log.WithField("job_id", jobID).Warn("WebSocket broadcast buffer full, dropping update")
	}
}

// HandleConnection serves one websocket connection. initial, if not nil, is
// written before any broadcast so the client starts from the current status.
func (h *Hub) HandleConnection(c *websocket.Conn, jobID uuid.UUID, initial []byte) {
	client := NewClient(jobID)
	if initial != nil {
		client.Send <- initial
	}

	if !h.Register(client) {
		return
	}
	defer h.Unregister(client)

	// replies from the reader go through the writer; the hub never closes this
	control := make(chan []byte, 1)

	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case message := <-control:
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case message, ok := <-client.Send:
				if !ok {
					_ = c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).WithField("job_id", jobID).Warn("WebSocket read error")
			}
			break
		}

		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			pong, _ := json.Marshal(model.WSMessage{Type: model.WSMessageTypePong})
			select {
			case control <- pong:
			default:
			}
		}
	}
}
