package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	userentity "trade_backend/internal/feature/auth/domain/entity"
	candleentity "trade_backend/internal/feature/candles/domain/entity"
	tickerentity "trade_backend/internal/feature/tickers/domain/entity"
	tradeentity "trade_backend/internal/feature/trades/domain/entity"
)

var (
	// ErrMarketClosed は市場時間外の起動を示します。エラーではなく正常なアイドルです。
	ErrMarketClosed = errors.New("market is closed")

	// ErrConnectTimeout はフィード接続が確認期限までに確立しなかったことを示します。
	ErrConnectTimeout = errors.New("tick feed connection not confirmed in time")
)

// connectConfirmTimeout は接続確認の待ち時間です。
const connectConfirmTimeout = 10 * time.Second

// Tick はフィードから届く1件の価格更新です。
type Tick struct {
	InstrumentToken uint32
	LastPrice       float64
	Volume          int64
	Timestamp       time.Time
}

// FeedHandlers はフィードのライフサイクルイベントのコールバック集合です。
type FeedHandlers struct {
	OnTick    func(Tick)
	OnConnect func()
	OnClose   func(code int, reason string)
	OnError   func(err error)
}

// TickFeed は外部のtick配信サービスを抽象化します。
type TickFeed interface {
	// EnsureSession は配信サービスの認証セッションを検証・更新します。
	EnsureSession(ctx context.Context) error
	// Connect はストリームへ接続し、読み取りループを開始します。
	Connect(ctx context.Context, h FeedHandlers) error
	// Subscribe はインストゥルメントの購読を開始します。
	Subscribe(tokens []uint32) error
	Close() error
}

// TickerStore はランナーが必要とするティッカーの読み書きです。
type TickerStore interface {
	List(ctx context.Context) ([]tickerentity.Ticker, error)
	UpdatePrice(ctx context.Context, tickerID uint, price float64, at time.Time) error
}

// CandleWriter は完了足の永続化を抽象化します。
type CandleWriter interface {
	UpsertBatch(ctx context.Context, candles []candleentity.Candle) error
}

// TradeChecker は完了足に対するトレード評価を抽象化します。
type TradeChecker interface {
	OnCompletedCandle(ctx context.Context, ticker tickerentity.Ticker, c candleentity.Candle) ([]tradeentity.Trade, error)
}

// UserDirectory は通知宛先となるユーザーの解決を抽象化します。
type UserDirectory interface {
	// ListAdmins は障害通知の宛先となる管理者ユーザーを返します。
	ListAdmins(ctx context.Context) ([]userentity.User, error)
	// FindByID はトレード所有者を解決します。
	FindByID(ctx context.Context, id uint) (*userentity.User, error)
}

// Notifier は運用イベントの通知を抽象化します。
type Notifier interface {
	LoginFailure(admins []userentity.User, err error)
	TradeStatusChange(owner userentity.User, trade tradeentity.Trade)
}

// Runner はライブパイプライン全体を統括します。
// 市場時間ゲート、フィードのライフサイクル、tickの集約、1秒ごとのスイープ、
// トレード評価と通知、完了足の永続化を1プロセスとして駆動します。
type Runner struct {
	feed    TickFeed
	tickers TickerStore
	candles CandleWriter
	checker TradeChecker
	users   UserDirectory
	notify  Notifier

	agg *Aggregator

	// byToken は起動時に1度だけ構築し、以後変更しません。
	byToken map[uint32]tickerentity.Ticker

	// 最新価格はトークンごとにスイープループからのみ読み書きします。
	lastPrice map[uint32]float64
	priceMu   sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once

	now            func() time.Time
	sweepInterval  time.Duration
	confirmTimeout time.Duration
}

// NewRunner はRunnerの新しいインスタンスを生成します。
func NewRunner(feed TickFeed, tickers TickerStore, candles CandleWriter, checker TradeChecker, users UserDirectory, notify Notifier) *Runner {
	return &Runner{
		feed:           feed,
		tickers:        tickers,
		candles:        candles,
		checker:        checker,
		users:          users,
		notify:         notify,
		agg:            NewAggregator(),
		byToken:        make(map[uint32]tickerentity.Ticker),
		lastPrice:      make(map[uint32]float64),
		stop:           make(chan struct{}),
		now:            time.Now,
		sweepInterval:  time.Second,
		confirmTimeout: connectConfirmTimeout,
	}
}

// Run はパイプラインを起動し、市場が閉じるかctxがキャンセルされるまでブロックします。
// 市場時間外の起動は ErrMarketClosed を返します（異常終了ではありません）。
func (r *Runner) Run(ctx context.Context) error {
	if !IsMarketOpen(r.now()) {
		slog.Info("market is closed, not starting live pipeline")
		return ErrMarketClosed
	}

	if err := r.feed.EnsureSession(ctx); err != nil {
		r.notifyLoginFailure(ctx, err)
		return fmt.Errorf("failed to establish feed session: %w", err)
	}

	tickers, err := r.tickers.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tickers: %w", err)
	}
	if len(tickers) == 0 {
		slog.Warn("no tickers registered, nothing to subscribe")
		return nil
	}

	tokens := make([]uint32, 0, len(tickers))
	for _, t := range tickers {
		r.byToken[t.InstrumentToken] = t
		tokens = append(tokens, t.InstrumentToken)
	}

	connected := make(chan struct{})
	handlers := FeedHandlers{
		OnTick: r.onTick,
		OnConnect: func() {
			slog.Info("tick feed connected", "instruments", len(tokens))
			if err := r.feed.Subscribe(tokens); err != nil {
				slog.Error("failed to subscribe instruments", "error", err)
				r.requestStop()
				return
			}
			close(connected)
		},
		OnClose: func(code int, reason string) {
			slog.Info("tick feed closed", "code", code, "reason", reason)
			r.requestStop()
		},
		OnError: func(err error) {
			slog.Error("tick feed error", "error", err)
		},
	}

	if err := r.feed.Connect(ctx, handlers); err != nil {
		return fmt.Errorf("failed to connect tick feed: %w", err)
	}
	defer r.feed.Close()

	select {
	case <-connected:
	case <-r.stop:
		return ErrConnectTimeout
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.confirmTimeout):
		return ErrConnectTimeout
	}

	return r.sweepLoop(ctx)
}

// Stop はパイプラインの停止を要求します。複数回呼んでも安全です。
func (r *Runner) Stop() {
	r.requestStop()
}

func (r *Runner) requestStop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// onTick はフィードの読み取りゴルーチンから呼ばれます。
// セッション外のtickはここで破棄し、集約には渡しません。
func (r *Runner) onTick(t Tick) {
	if t.LastPrice <= 0 || t.Timestamp.IsZero() {
		slog.Warn("discarding malformed tick", "token", t.InstrumentToken, "price", t.LastPrice)
		return
	}
	if !WithinTradingHours(t.Timestamp) {
		return
	}
	ticker, ok := r.byToken[t.InstrumentToken]
	if !ok {
		return
	}
	r.agg.ObserveTick(t.InstrumentToken, ticker.Symbol, t.LastPrice, t.Volume, t.Timestamp)

	r.priceMu.Lock()
	r.lastPrice[t.InstrumentToken] = t.LastPrice
	r.priceMu.Unlock()
}

// sweepLoop は1秒間隔で完了足を回収し、評価・永続化・通知を行います。
func (r *Runner) sweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case <-r.stop:
			r.drain(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C:
			now := r.now()
			if !IsMarketOpen(now) {
				slog.Info("market closed, stopping live pipeline")
				r.drain(ctx)
				return nil
			}
			r.sweepOnce(ctx, now)
		}
	}
}

// sweepOnce は1回分のスイープを処理します。足ごとに価格更新・評価・通知を行い、
// 最後にバッチで永続化します。個々の失敗はログに残して続行します。
func (r *Runner) sweepOnce(ctx context.Context, now time.Time) {
	completed := r.agg.Sweep(now)
	if len(completed) == 0 {
		return
	}

	for _, c := range completed {
		ticker, ok := r.byToken[c.Token]
		if !ok {
			continue
		}

		r.priceMu.Lock()
		last, ok := r.lastPrice[c.Token]
		r.priceMu.Unlock()
		if !ok || last <= 0 {
			last = c.Close
		}
		ticker.LastPrice = last

		if err := r.tickers.UpdatePrice(ctx, ticker.ID, last, now); err != nil {
			slog.Error("failed to update ticker price", "symbol", ticker.Symbol, "error", err)
		}

		changed, err := r.checker.OnCompletedCandle(ctx, ticker, c)
		if err != nil {
			slog.Error("failed to evaluate trades", "symbol", ticker.Symbol, "error", err)
			continue
		}
		for _, trade := range changed {
			owner, err := r.users.FindByID(ctx, trade.UserID)
			if err != nil {
				slog.Error("failed to resolve trade owner for notification",
					"trade_id", trade.ID, "user_id", trade.UserID, "error", err)
				continue
			}
			r.notify.TradeStatusChange(*owner, trade)
		}
	}

	if err := r.candles.UpsertBatch(ctx, completed); err != nil {
		slog.Error("failed to persist candles", "count", len(completed), "error", err)
	}
}

// drain は停止直前に最後のスイープを1回行い、完了済みの足を永続化します。
// ウィンドウ幅が経過していない進行中の足は確定値を持たないため破棄します。
func (r *Runner) drain(ctx context.Context) {
	remaining := r.agg.Sweep(r.now())
	if len(remaining) == 0 {
		return
	}
	if err := r.candles.UpsertBatch(ctx, remaining); err != nil {
		slog.Error("failed to persist remaining candles", "count", len(remaining), "error", err)
	}
}

// notifyLoginFailure はフィード認証の失敗を管理者へ通知します。
func (r *Runner) notifyLoginFailure(ctx context.Context, cause error) {
	admins, err := r.users.ListAdmins(ctx)
	if err != nil {
		slog.Error("failed to list admin users for notification", "error", err)
		return
	}
	r.notify.LoginFailure(admins, cause)
}
