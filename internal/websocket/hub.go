package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub WebSocket 연결 관리 및 브로드캐스트
// 전체 투표 수 실시간 카운터를 모든 접속자에게 흘려보낸다
type Hub struct {
	// 익명 공개 채널이라 연결 자체가 키
	clients map[*Client]struct{}
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	logger *zap.Logger
}

// Message WebSocket 메시지
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// TotalVotesMessage 전체 투표 수 갱신 메시지
type TotalVotesMessage struct {
	Total int64 `json:"total"`
}

// NewHub Hub 생성
func NewHub() *Hub {
	logger, _ := zap.NewProduction()
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// PublishTotal 전체 투표 수 브로드캐스트 (service.VoteTicker 구현)
func (h *Hub) PublishTotal(total int64) {
	select {
	case h.broadcast <- &Message{Type: "total_votes", Payload: TotalVotesMessage{Total: total}}:
	default:
		// 브로드캐스트 큐가 가득 차면 이번 갱신은 버린다 (다음 투표가 곧 온다)
	}
}

// registerClient 클라이언트 등록
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	h.logger.Info("WebSocket client registered",
		zap.Int("totalClients", len(h.clients)))
}

// unregisterClient 클라이언트 해제
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client]; exists {
		delete(h.clients, client)
		close(client.send)
		h.logger.Info("WebSocket client unregistered",
			zap.Int("totalClients", len(h.clients)))
	}
}

// broadcastMessage 모든 접속자에게 메시지 전송
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// 채널이 가득 찬 경우 연결 해제
			h.logger.Warn("Client send channel full, unregistering")
			go func(c *Client) {
				h.unregister <- c
			}(client)
		}
	}
}
