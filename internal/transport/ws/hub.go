package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgScoreChanged    MessageType = "score_changed"
	MsgScrollToElement MessageType = "scroll_to_element"
	MsgLockLost        MessageType = "lock_lost"
	MsgSessionClosed   MessageType = "session_closed"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for open surveys. Every connection
// watches one survey; score and scroll notifications fan out to all of a
// survey's watchers.
type Hub struct {
	conns map[string]map[*Connection]struct{} // surveyID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	SurveyID string
	AuthorID string
	Send     chan []byte
	Hub      *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SurveyID   string
	Message    *Message
	Disconnect bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SurveyID] == nil {
				h.conns[conn.SurveyID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SurveyID][conn] = struct{}{}
			h.mu.Unlock()
			log.Printf("Author %s watching survey %s", conn.AuthorID, conn.SurveyID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if watchers, ok := h.conns[conn.SurveyID]; ok {
				if _, ok := watchers[conn]; ok {
					delete(watchers, conn)
					close(conn.Send)
					if len(watchers) == 0 {
						delete(h.conns, conn.SurveyID)
					}
					log.Printf("Author %s stopped watching survey %s", conn.AuthorID, conn.SurveyID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			watchers := h.conns[msg.SurveyID]
			if msg.Message != nil {
				data, _ := json.Marshal(msg.Message)
				for conn := range watchers {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			}
			if msg.Disconnect {
				for conn := range watchers {
					close(conn.Send)
				}
				delete(h.conns, msg.SurveyID)
			}
			h.mu.Unlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSurvey sends a message to every watcher of a survey
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSurvey(surveyID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSurvey closes every watcher of a survey (implements
// service.Broadcaster)
func (h *Hub) DisconnectSurvey(surveyID string) {
	data, _ := json.Marshal(struct{}{})
	h.broadcast <- &BroadcastMessage{
		SurveyID: surveyID,
		Message: &Message{
			Type:    MsgSessionClosed,
			Payload: data,
		},
		Disconnect: true,
	}
}
