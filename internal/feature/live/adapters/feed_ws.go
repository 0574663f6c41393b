// Package adapters はライブ機能の外部接続（tick配信サービス）を実装します。
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trade_backend/internal/feature/live/usecase"
)

const (
	handshakeTimeout = 10 * time.Second
	readTimeout      = 30 * time.Second
	writeTimeout     = 5 * time.Second
	pingInterval     = 15 * time.Second
	maxMessageSize   = 1 << 20
)

// FeedConfig はtick配信サービスへの接続設定です。
type FeedConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string // セッションAPIのエンドポイント
	WSURL     string // WebSocketストリームのエンドポイント
}

// FeedConfigFromEnv は環境変数から接続設定を読み込みます。
func FeedConfigFromEnv() FeedConfig {
	return FeedConfig{
		APIKey:    os.Getenv("FEED_API_KEY"),
		APISecret: os.Getenv("FEED_API_SECRET"),
		BaseURL:   os.Getenv("FEED_BASE_URL"),
		WSURL:     os.Getenv("FEED_WS_URL"),
	}
}

// wsFeed はWebSocketベースのtickフィードクライアントです。
type wsFeed struct {
	cfg    FeedConfig
	client *http.Client

	mu          sync.Mutex
	conn        *websocket.Conn
	accessToken string

	closeOnce sync.Once
	done      chan struct{}
}

// NewWSFeed はwsFeedの新しいインスタンスを生成します。
func NewWSFeed(cfg FeedConfig) *wsFeed {
	return &wsFeed{
		cfg:    cfg,
		client: &http.Client{Timeout: handshakeTimeout},
		done:   make(chan struct{}),
	}
}

var _ usecase.TickFeed = (*wsFeed)(nil)

// sessionResponse はセッションAPIの応答です。
type sessionResponse struct {
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// EnsureSession は配信サービスのセッションAPIでアクセストークンを取得します。
func (f *wsFeed) EnsureSession(ctx context.Context) error {
	if f.cfg.APIKey == "" || f.cfg.APISecret == "" {
		return fmt.Errorf("feed credentials are not configured")
	}

	body, err := json.Marshal(map[string]string{
		"api_key":    f.cfg.APIKey,
		"api_secret": f.cfg.APISecret,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.BaseURL+"/session/token", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call session api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxMessageSize))
	if err != nil {
		return fmt.Errorf("failed to read session response: %w", err)
	}

	var session sessionResponse
	if err := json.Unmarshal(raw, &session); err != nil {
		return fmt.Errorf("failed to decode session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || session.AccessToken == "" {
		return fmt.Errorf("session api rejected credentials (status %d): %s", resp.StatusCode, session.Error)
	}

	f.mu.Lock()
	f.accessToken = session.AccessToken
	f.mu.Unlock()
	return nil
}

// feedTick はストリーム上の1件のtickメッセージです。
type feedTick struct {
	InstrumentToken   uint32  `json:"instrument_token"`
	LastPrice         float64 `json:"last_price"`
	Volume            int64   `json:"volume"`
	ExchangeTimestamp int64   `json:"exchange_timestamp"` // UNIX秒
}

// Connect はWebSocketストリームへ接続し、読み取りループとpingループを開始します。
// 接続確立後にh.OnConnectを呼びます。以降のイベントは読み取りゴルーチンから通知されます。
func (f *wsFeed) Connect(ctx context.Context, h usecase.FeedHandlers) error {
	f.mu.Lock()
	token := f.accessToken
	f.mu.Unlock()

	u, err := url.Parse(f.cfg.WSURL)
	if err != nil {
		return fmt.Errorf("invalid feed websocket url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", f.cfg.APIKey)
	q.Set("access_token", token)
	u.RawQuery = q.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to dial tick feed: %w", err)
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	if h.OnConnect != nil {
		h.OnConnect()
	}

	go f.pingLoop(conn)
	go f.readLoop(conn, h)
	return nil
}

// readLoop はストリームのメッセージを読み続け、tickをハンドラへ渡します。
func (f *wsFeed) readLoop(conn *websocket.Conn, h usecase.FeedHandlers) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			code := websocket.CloseAbnormalClosure
			reason := err.Error()
			if ce, ok := err.(*websocket.CloseError); ok {
				code = ce.Code
				reason = ce.Text
			}
			if h.OnClose != nil {
				h.OnClose(code, reason)
			}
			return
		}

		var ticks []feedTick
		if err := json.Unmarshal(message, &ticks); err != nil {
			if h.OnError != nil {
				h.OnError(fmt.Errorf("failed to decode tick message: %w", err))
			}
			continue
		}
		for _, t := range ticks {
			if h.OnTick != nil {
				h.OnTick(usecase.Tick{
					InstrumentToken: t.InstrumentToken,
					LastPrice:       t.LastPrice,
					Volume:          t.Volume,
					Timestamp:       time.Unix(t.ExchangeTimestamp, 0),
				})
			}
		}
	}
}

// pingLoop はサーバーの読み取りデッドライン更新のため定期的にpingを送ります。
func (f *wsFeed) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Warn("tick feed ping failed", "error", err)
				return
			}
		case <-f.done:
			return
		}
	}
}

// subscribeMessage は購読要求のメッセージです。
type subscribeMessage struct {
	Action string   `json:"a"`
	Value  []uint32 `json:"v"`
}

// Subscribe はインストゥルメントの購読を要求し、フルモードへ切り替えます。
func (f *wsFeed) Subscribe(tokens []uint32) error {
	f.mu.Lock()
	conn := f.conn
	f.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("tick feed is not connected")
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(subscribeMessage{Action: "subscribe", Value: tokens}); err != nil {
		return fmt.Errorf("failed to subscribe instruments: %w", err)
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(subscribeMessage{Action: "mode_full", Value: tokens}); err != nil {
		return fmt.Errorf("failed to set feed mode: %w", err)
	}
	return nil
}

// Close は接続を閉じます。複数回呼んでも安全です。
func (f *wsFeed) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		f.mu.Lock()
		conn := f.conn
		f.mu.Unlock()
		if conn != nil {
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"))
			err = conn.Close()
		}
	})
	return err
}
