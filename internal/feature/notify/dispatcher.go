// Package notify は運用イベント（トレード状態変化・フィード障害）の通知を実装します。
package notify

import (
	"fmt"
	"log/slog"

	userentity "trade_backend/internal/feature/auth/domain/entity"
	tradeentity "trade_backend/internal/feature/trades/domain/entity"
	"trade_backend/internal/shared/ratelimiter"
)

// Sender は通知チャネル（メール・チャットなど）への送信を抽象化します。
type Sender interface {
	Send(recipients []string, subject, body string) error
}

// Dispatcher は通知イベントを整形し、レート制限付きでSenderへ送ります。
// 送信は呼び出し元（スイープループ）をブロックしないよう非同期で行います。
type Dispatcher struct {
	sender  Sender
	limiter ratelimiter.RateLimiterInterface
}

// NewDispatcher はDispatcherの新しいインスタンスを生成します。
func NewDispatcher(sender Sender, limiter ratelimiter.RateLimiterInterface) *Dispatcher {
	return &Dispatcher{sender: sender, limiter: limiter}
}

// LoginFailure はフィード認証の失敗を管理者へ通知します。
func (d *Dispatcher) LoginFailure(admins []userentity.User, cause error) {
	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		recipients = append(recipients, a.Email)
	}
	if len(recipients) == 0 {
		slog.Warn("no admin recipients for login failure notification", "error", cause)
		return
	}

	subject := "Tick feed login failure"
	body := fmt.Sprintf("The tick feed session could not be established: %v", cause)
	d.dispatch(recipients, subject, body)
}

// TradeStatusChange はトレードの状態遷移を所有ユーザーへ通知します。
func (d *Dispatcher) TradeStatusChange(owner userentity.User, trade tradeentity.Trade) {
	if owner.Email == "" {
		slog.Warn("trade owner has no email, dropping status notification",
			"trade_id", trade.ID, "user_id", owner.ID)
		return
	}
	subject := fmt.Sprintf("%s: %s", trade.Symbol, trade.Status)
	body := fmt.Sprintf("Trade %s on %s moved to %s (entry %.2f)",
		trade.ID, trade.Symbol, trade.Status, trade.Entry)
	d.dispatch([]string{owner.Email}, subject, body)
}

// dispatch はレート制限を確認した上で非同期送信します。上限超過分は破棄します。
func (d *Dispatcher) dispatch(recipients []string, subject, body string) {
	if !d.limiter.Allow() {
		slog.Warn("notification dropped by rate limit", "subject", subject)
		return
	}
	go func() {
		if err := d.sender.Send(recipients, subject, body); err != nil {
			slog.Error("failed to send notification", "subject", subject, "error", err)
		}
	}()
}

// LogSender は通知を構造化ログに書くだけのSenderです。
// 外部チャネルが設定されていない環境のデフォルトです。
type LogSender struct{}

// Send は通知内容をログに出力します。
func (LogSender) Send(recipients []string, subject, body string) error {
	slog.Info("notification", "recipients", recipients, "subject", subject, "body", body)
	return nil
}
