package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Event is a push notification delivered to a connected user: a pending
// transaction awaiting their confirmation, a settlement, or a commission
// landing in their pending balance.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventTransactionPending = "transaction_pending"
	EventTransactionSettled = "transaction_settled"
	EventCommissionAccrued  = "commission_accrued"
	EventPayoutProcessed    = "payout_processed"
)

type Client struct {
	Phone string
	Conn  *websocket.Conn
}

var clients = make(map[string]*websocket.Conn)
var clientsMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.Phone)
			clientsMu.Lock()
			clients[client.Phone] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.Phone)
			clientsMu.Lock()
			if conn, ok := clients[client.Phone]; ok && conn == client.Conn {
				delete(clients, client.Phone)
			}
			clientsMu.Unlock()
		}
	}
}

// Notify pushes an event to the given phone if it has a live connection.
// Delivery is best effort; a dead connection is dropped from the registry.
func Notify(phone string, event Event) {
	clientsMu.RLock()
	conn, ok := clients[phone]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(event); err != nil {
		log.Printf("Error sending event to client %s: %v", phone, err)
		conn.Close()
		clientsMu.Lock()
		if cur, ok := clients[phone]; ok && cur == conn {
			delete(clients, phone)
		}
		clientsMu.Unlock()
	}
}

// Serve keeps a client's connection open until the peer goes away. The
// phone was authenticated by the JWT middleware on the upgrade request.
func Serve(c *websocket.Conn) {
	phone, _ := c.Locals("phone").(string)
	if phone == "" {
		c.Close()
		return
	}

	client := &Client{Phone: phone, Conn: c}
	Register <- client
	defer func() {
		Unregister <- client
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
