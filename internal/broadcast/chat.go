// Package broadcast содержит адаптеры границы эфира: создание трансляции
// через платформу, выход на сцену и комната чата поверх websocket.
// Управление транспортом эфира остаётся за внешним SDK; здесь только
// контракт, который потребляет приложение.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// ConnectionState — состояние подключения к комнате чата.
type ConnectionState string

// Состояния подключения.
const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
)

// ErrNotConnected возвращается при отправке сообщения без подключения.
var ErrNotConnected = errors.New("chat room is not connected")

// RoomListeners — обратные вызовы комнаты чата. Незаданные вызовы
// пропускаются.
type RoomListeners struct {
	OnConnecting func()
	OnConnect    func()
	OnDisconnect func()
	OnMessage    func(data []byte)
}

// Room — комната чата поверх websocket.
type Room struct {
	url       string
	listeners RoomListeners

	mu    sync.Mutex
	conn  *websocket.Conn
	state ConnectionState
}

// NewRoom создаёт комнату чата по адресу её websocket-эндпоинта.
func NewRoom(url string, listeners RoomListeners) *Room {
	return &Room{url: url, listeners: listeners, state: StateDisconnected}
}

// State возвращает состояние подключения.
func (r *Room) State() ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Connect подключается к комнате с токеном доступа и запускает чтение
// входящих сообщений.
func (r *Room) Connect(ctx context.Context, token string) error {
	r.mu.Lock()
	if r.state != StateDisconnected {
		r.mu.Unlock()
		return fmt.Errorf("chat room is already %s", r.state)
	}
	r.state = StateConnecting
	r.mu.Unlock()

	if r.listeners.OnConnecting != nil {
		r.listeners.OnConnecting()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url+"?token="+token, nil)
	if err != nil {
		r.mu.Lock()
		r.state = StateDisconnected
		r.mu.Unlock()
		return fmt.Errorf("dial chat room: %w", err)
	}

	r.mu.Lock()
	r.conn = conn
	r.state = StateConnected
	r.mu.Unlock()

	if r.listeners.OnConnect != nil {
		r.listeners.OnConnect()
	}

	go r.readLoop(conn)
	return nil
}

func (r *Room) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			r.mu.Lock()
			if r.conn == conn {
				r.conn = nil
				r.state = StateDisconnected
			}
			r.mu.Unlock()
			if r.listeners.OnDisconnect != nil {
				r.listeners.OnDisconnect()
			}
			return
		}
		if r.listeners.OnMessage != nil {
			r.listeners.OnMessage(data)
		}
	}
}

// SendMessage отправляет текстовое сообщение в комнату.
func (r *Room) SendMessage(text string) error {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	return nil
}

// Disconnect закрывает подключение к комнате.
func (r *Room) Disconnect() error {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.state = StateDisconnected
	r.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}
