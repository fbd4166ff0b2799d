package ws

import (
	"errors"
	"sync"
	"time"

	metrics "hedge_bot/internal/modules/metrics/service"
	"hedge_bot/pkg/logger"

	"github.com/gorilla/websocket"
)

// ErrConnectionTimeout — сокет не дождался открытия за отведённые попытки.
var ErrConnectionTimeout = errors.New("ws: connection open timeout")

type Options struct {
	// Name попадает в логи и метрики: "trade" / "user-stream".
	Name string

	PingInterval    time.Duration // keepalive ping, по умолчанию 10s
	ReplaceInterval time.Duration // плановая замена соединения, по умолчанию 6h
	ReadyPoll       time.Duration // шаг ожидания открытия, по умолчанию 10ms
	ReadyAttempts   int           // попыток ожидания, по умолчанию 1000
}

func (o *Options) defaults() {
	if o.Name == "" {
		o.Name = "ws"
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 10 * time.Second
	}
	if o.ReplaceInterval <= 0 {
		o.ReplaceInterval = 6 * time.Hour
	}
	if o.ReadyPoll <= 0 {
		o.ReadyPoll = 10 * time.Millisecond
	}
	if o.ReadyAttempts <= 0 {
		o.ReadyAttempts = 1000
	}
}

// Session владеет одним логическим потоковым соединением: ожидание
// открытия, keepalive, плановая замена раз в ReplaceInterval и повторный
// дозвон при обрыве. Все входящие кадры уходят в один callback.
type Session struct {
	url       string
	opts      Options
	dialer    *websocket.Dialer
	onMessage func([]byte)

	mu     sync.Mutex
	conn   *websocket.Conn
	gen    int // поколение активного соединения
	closed bool
	done   chan struct{}
}

// Dial открывает соединение и блокирует вызывающего до готовности.
func Dial(url string, onMessage func([]byte), opts Options) (*Session, error) {
	opts.defaults()

	s := &Session{
		url:       url,
		opts:      opts,
		dialer:    &websocket.Dialer{},
		onMessage: onMessage,
		done:      make(chan struct{}),
	}

	conn, err := s.connect()
	if err != nil {
		return nil, err
	}
	s.install(conn)

	go s.keepaliveLoop()
	go s.replaceLoop()

	return s, nil
}

// connect дозванивается в фоне и опрашивает готовность с фиксированным
// шагом, как ждут readyState у асинхронных ws-клиентов.
func (s *Session) connect() (*websocket.Conn, error) {
	var (
		mu        sync.Mutex
		conn      *websocket.Conn
		dialErr   error
		settled   bool
		abandoned bool
	)

	go func() {
		c, _, err := s.dialer.Dial(s.url, nil)
		mu.Lock()
		if abandoned {
			mu.Unlock()
			// опоздавший дозвон уже никому не нужен
			if c != nil {
				_ = c.Close()
			}
			return
		}
		conn, dialErr, settled = c, err, true
		mu.Unlock()
	}()

	for attempt := 0; attempt < s.opts.ReadyAttempts; attempt++ {
		time.Sleep(s.opts.ReadyPoll)

		mu.Lock()
		c, err, ok := conn, dialErr, settled
		mu.Unlock()

		if !ok {
			continue
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	mu.Lock()
	abandoned = true
	mu.Unlock()
	return nil, ErrConnectionTimeout
}

// install делает conn активным и запускает его read loop.
// Старое соединение закрывается только после переключения — в момент
// замены всегда есть живой сокет.
func (s *Session) install(conn *websocket.Conn) {
	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	s.mu.Lock()
	old := s.conn
	s.conn = conn
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}

	go s.readLoop(conn, gen)
}

func (s *Session) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			// соединение уже заменили по расписанию либо сессию закрыли —
			// этот loop никому не принадлежит
			if s.stale(gen) {
				return
			}
			logger.Error("[WS] %s read error: %v", s.opts.Name, err)
			s.redial(gen)
			return
		}
		if s.onMessage != nil {
			s.onMessage(msg)
		}
	}
}

func (s *Session) stale(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || gen != s.gen
}

// redial — внеплановое переподключение после обрыва активного соединения.
func (s *Session) redial(gen int) {
	for {
		if s.stale(gen) {
			return
		}
		conn, err := s.connect()
		if err != nil {
			logger.Error("[WS] %s redial failed: %v", s.opts.Name, err)
			time.Sleep(time.Second)
			continue
		}
		if s.stale(gen) {
			_ = conn.Close()
			return
		}
		logger.Info("[WS] %s reconnected", s.opts.Name)
		metrics.WsReconnects.WithLabelValues(s.opts.Name).Inc()
		s.install(conn)
		return
	}
}

func (s *Session) keepaliveLoop() {
	t := time.NewTicker(s.opts.PingInterval)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			s.mu.Lock()
			conn := s.conn
			s.mu.Unlock()
			if conn != nil {
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second))
			}
		}
	}
}

// replaceLoop раз в ReplaceInterval поднимает свежее соединение и только
// потом гасит старое. Если дозвон не удался, живём на старом до
// следующего тика.
func (s *Session) replaceLoop() {
	t := time.NewTicker(s.opts.ReplaceInterval)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-t.C:
			conn, err := s.connect()
			if err != nil {
				logger.Error("[WS] %s scheduled replace failed: %v", s.opts.Name, err)
				continue
			}
			logger.Info("[WS] %s scheduled replace", s.opts.Name)
			metrics.WsReconnects.WithLabelValues(s.opts.Name).Inc()
			s.install(conn)
		}
	}
}

func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.conn == nil {
		return errors.New("ws: session closed")
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	close(s.done)
	if conn != nil {
		_ = conn.Close()
	}
}
