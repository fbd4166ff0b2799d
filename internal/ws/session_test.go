package ws

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// echoServer отдаёт каждый текстовый кадр обратно и считает подключения.
func echoServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()

	var conns int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&conns, 1)
		defer c.Close()
		for {
			mt, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := c.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &conns
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func awaitFrame(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return nil
	}
}

func waitConns(t *testing.T, conns *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(conns) < want {
		if time.Now().After(deadline) {
			t.Fatalf("expected >= %d connections, got %d", want, atomic.LoadInt32(conns))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDialSendReceive(t *testing.T) {
	srv, _ := echoServer(t)

	frames := make(chan []byte, 8)
	s, err := Dial(wsURL(srv), func(msg []byte) { frames <- msg }, Options{Name: "trade"})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send([]byte(`{"id":"1"}`)))
	assert.Equal(t, `{"id":"1"}`, string(awaitFrame(t, frames)))
}

func TestScheduledReplaceKeepsSessionAlive(t *testing.T) {
	srv, conns := echoServer(t)

	frames := make(chan []byte, 8)
	s, err := Dial(wsURL(srv), func(msg []byte) { frames <- msg }, Options{
		Name:            "trade",
		ReplaceInterval: 50 * time.Millisecond,
	})
	require.NoError(t, err)
	defer s.Close()

	// плановая замена подняла хотя бы одно свежее соединение
	waitConns(t, conns, 2)

	// кадр может попасть в соединение, которое как раз гасят при замене
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.False(t, time.Now().After(deadline), "session did not survive replace")
		_ = s.Send([]byte("still-alive"))
		select {
		case msg := <-frames:
			assert.Equal(t, "still-alive", string(msg))
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func TestRedialAfterServerDrop(t *testing.T) {
	var conns int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// первое соединение рвём сразу, дальше — эхо
		if atomic.AddInt32(&conns, 1) == 1 {
			c.Close()
			return
		}
		defer c.Close()
		for {
			mt, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			if err := c.WriteMessage(mt, msg); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	frames := make(chan []byte, 8)
	s, err := Dial(wsURL(srv), func(msg []byte) { frames <- msg }, Options{Name: "user-stream"})
	require.NoError(t, err)
	defer s.Close()

	waitConns(t, &conns, 2)

	// после переподключения сессия остаётся рабочей без участия вызывающего;
	// кадр, ушедший в умирающее соединение, мог потеряться — шлём до эха
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.False(t, time.Now().After(deadline), "session did not recover")
		_ = s.Send([]byte("after-drop"))
		select {
		case msg := <-frames:
			assert.Equal(t, "after-drop", string(msg))
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func TestDialRefused(t *testing.T) {
	_, err := Dial("ws://127.0.0.1:1", nil, Options{Name: "trade"})
	require.Error(t, err)
}

func TestDialOpenTimeout(t *testing.T) {
	// сервер принимает TCP, но не отвечает на handshake
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			if _, err := ln.Accept(); err != nil {
				return
			}
		}
	}()

	_, err = Dial("ws://"+ln.Addr().String(), nil, Options{
		Name:          "trade",
		ReadyPoll:     time.Millisecond,
		ReadyAttempts: 20,
	})
	require.ErrorIs(t, err, ErrConnectionTimeout)
}

func TestDialTimeoutClosesLateConnection(t *testing.T) {
	serverSawClose := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// handshake завершается уже после того, как ожидание брошено
		time.Sleep(100 * time.Millisecond)
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		_, _, _ = c.ReadMessage() // ошибка чтения = клиент закрыл соединение
		close(serverSawClose)
	}))
	t.Cleanup(srv.Close)

	_, err := Dial(wsURL(srv), nil, Options{
		Name:          "trade",
		ReadyPoll:     time.Millisecond,
		ReadyAttempts: 10,
	})
	require.ErrorIs(t, err, ErrConnectionTimeout)

	select {
	case <-serverSawClose:
	case <-time.After(2 * time.Second):
		t.Fatal("abandoned connection was not closed")
	}
}

func TestSendAfterClose(t *testing.T) {
	srv, _ := echoServer(t)

	s, err := Dial(wsURL(srv), nil, Options{Name: "trade"})
	require.NoError(t, err)

	s.Close()
	s.Close() // повторный Close безопасен
	require.Error(t, s.Send([]byte("x")))
}
