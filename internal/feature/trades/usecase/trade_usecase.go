package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	tagentity "trade_backend/internal/feature/tags/domain/entity"
	tickerentity "trade_backend/internal/feature/tickers/domain/entity"
	"trade_backend/internal/feature/trades/domain/entity"
)

// ListFilter はトレード一覧の絞り込み条件です。空文字のフィールドは無視されます。
type ListFilter struct {
	Status string // 完全一致
	Symbol string // 部分一致（大文字小文字を区別しない）
	Type   string // 完全一致
}

// TradeRepository はトレードエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type TradeRepository interface {
	Create(ctx context.Context, t *entity.Trade) error
	Update(ctx context.Context, t *entity.Trade) error
	ReplaceTags(ctx context.Context, t *entity.Trade, tags []tagentity.Tag) error
	Delete(ctx context.Context, id string, userID uint) error
	// FindByID はユーザー所有のトレードを取得します。他ユーザーのIDは見つからない扱いです。
	FindByID(ctx context.Context, id string, userID uint) (*entity.Trade, error)
	List(ctx context.Context, userID uint, f ListFilter) ([]entity.Trade, error)
}

// TickerReader は参照先ティッカーの読み取りを抽象化します。
type TickerReader interface {
	FindByID(ctx context.Context, id uint) (*tickerentity.Ticker, error)
}

// TagStore はタグの検索・作成を抽象化します。
type TagStore interface {
	// FindOrCreate はユーザーのタグを名前で取得し、無ければ作成します。
	FindOrCreate(ctx context.Context, userID uint, name string) (*tagentity.Tag, error)
}

// CreateInput はトレード作成の入力です。SideとTypeは省略可能で、
// 省略時はストップロスと現在価格から推定されます。
type CreateInput struct {
	TickerID  uint
	Entry     float64
	Stoploss  *float64
	Target    *float64
	Side      entity.Side
	Notes     string
	Timeframe entity.Timeframe
	Score     *int
	EntryX    *time.Time
	StoplossX *time.Time
	TargetX   *time.Time
	Tags      []string
}

// UpdateInput は部分更新の入力です。nilのフィールドは変更されません。
type UpdateInput struct {
	Notes     *string
	Entry     *float64
	Stoploss  *float64
	Target    *float64
	Timeframe *entity.Timeframe
	Score     *int
	EntryX    *time.Time
	StoplossX *time.Time
	TargetX   *time.Time
	// Tags が非nilの場合、トレードのタグ集合を丸ごと置き換えます
	// （トレードから外れたタグ自体は削除されません）。
	Tags *[]string
}

// tradeUsecase はトレードCRUDのビジネスロジックを実装します。
type tradeUsecase struct {
	trades  TradeRepository
	tickers TickerReader
	tags    TagStore
	now     func() time.Time
}

// NewTradeUsecase はtradeUsecaseの新しいインスタンスを生成します。
func NewTradeUsecase(trades TradeRepository, tickers TickerReader, tags TagStore) *tradeUsecase {
	return &tradeUsecase{
		trades:  trades,
		tickers: tickers,
		tags:    tags,
		now:     time.Now,
	}
}

// InferSideAndType はストップロスと現在価格からトレードの方向とトリガー方式を推定します。
// ストップロスがある場合、エントリーがストップロス以上ならBuy、未満ならSell。
// ストップロスが無い場合はsideの明示が必須で、無ければ ErrSideRequired を返します。
// 方式は「Buyでエントリーが現在価格以下」または「Sellでエントリーが現在価格以上」の
// ときBreakout、それ以外はPullbackです（トレーダーの「Xを抜けたら買い」と
// 「Xまで押したら買い」の言い分けに対応します）。
func InferSideAndType(entry float64, stoploss *float64, side entity.Side, lastPrice float64) (entity.Side, entity.Type, error) {
	if stoploss != nil {
		if entry >= *stoploss {
			side = entity.SideBuy
		} else {
			side = entity.SideSell
		}
	} else if side == "" {
		return "", "", ErrSideRequired
	}

	var tradeType entity.Type
	if side == entity.SideBuy {
		if entry <= lastPrice {
			tradeType = entity.TypeBreakout
		} else {
			tradeType = entity.TypePullback
		}
	} else {
		if entry >= lastPrice {
			tradeType = entity.TypeBreakout
		} else {
			tradeType = entity.TypePullback
		}
	}
	return side, tradeType, nil
}

// CreateTrade は新しいトレードプランを作成します。
// 参照先ティッカーの現在価格でside/typeを推定し、タグを必要に応じて作成します。
func (u *tradeUsecase) CreateTrade(ctx context.Context, userID uint, in CreateInput) (*entity.Trade, error) {
	ticker, err := u.tickers.FindByID(ctx, in.TickerID)
	if err != nil {
		return nil, ErrTickerNotFound
	}

	side, tradeType, err := InferSideAndType(in.Entry, in.Stoploss, in.Side, ticker.LastPrice)
	if err != nil {
		return nil, err
	}

	tags, err := u.collectTags(ctx, userID, in.Tags)
	if err != nil {
		return nil, err
	}

	timeframe := in.Timeframe
	if timeframe == "" {
		timeframe = entity.TimeframeDay
	}

	now := u.now()
	trade := &entity.Trade{
		ID:        uuid.NewString(),
		Symbol:    ticker.Symbol,
		Side:      side,
		Type:      tradeType,
		Status:    entity.StatusActive,
		Notes:     in.Notes,
		Entry:     in.Entry,
		Stoploss:  in.Stoploss,
		Target:    in.Target,
		Timeframe: timeframe,
		Score:     in.Score,
		EntryX:    in.EntryX,
		StoplossX: in.StoplossX,
		TargetX:   in.TargetX,
		UpdatedAt: &now,
		UserID:    userID,
		TickerID:  ticker.ID,
		Tags:      tags,
	}

	if err := u.trades.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	trade.Ticker = ticker
	return trade, nil
}

// UpdateTrade はユーザー所有のトレードを部分更新します。
// 編集時刻（EditedAt）を設定し、Tagsが与えられた場合はタグ集合を置き換えます。
func (u *tradeUsecase) UpdateTrade(ctx context.Context, userID uint, id string, in UpdateInput) (*entity.Trade, error) {
	trade, err := u.trades.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Notes != nil {
		trade.Notes = *in.Notes
	}
	if in.Entry != nil {
		trade.Entry = *in.Entry
	}
	if in.Stoploss != nil {
		trade.Stoploss = in.Stoploss
	}
	if in.Target != nil {
		trade.Target = in.Target
	}
	if in.Timeframe != nil {
		trade.Timeframe = *in.Timeframe
	}
	if in.Score != nil {
		trade.Score = in.Score
	}
	if in.EntryX != nil {
		trade.EntryX = in.EntryX
	}
	if in.StoplossX != nil {
		trade.StoplossX = in.StoplossX
	}
	if in.TargetX != nil {
		trade.TargetX = in.TargetX
	}

	now := u.now()
	trade.EditedAt = &now
	trade.UpdatedAt = &now

	if err := u.trades.Update(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}

	if in.Tags != nil {
		tags, err := u.collectTags(ctx, userID, *in.Tags)
		if err != nil {
			return nil, err
		}
		if err := u.trades.ReplaceTags(ctx, trade, tags); err != nil {
			return nil, fmt.Errorf("failed to replace tags: %w", err)
		}
		trade.Tags = tags
	}
	return trade, nil
}

// GetTrade はユーザー所有のトレードを1件取得します。
func (u *tradeUsecase) GetTrade(ctx context.Context, userID uint, id string) (*entity.Trade, error) {
	return u.trades.FindByID(ctx, id, userID)
}

// ListTrades はユーザーのトレード一覧をフィルタ付きで取得します。
func (u *tradeUsecase) ListTrades(ctx context.Context, userID uint, f ListFilter) ([]entity.Trade, error) {
	return u.trades.List(ctx, userID, f)
}

// DeleteTrade はユーザー所有のトレードを削除します。
func (u *tradeUsecase) DeleteTrade(ctx context.Context, userID uint, id string) error {
	return u.trades.Delete(ctx, id, userID)
}

// collectTags は名前のリストをタグエンティティへ解決します（重複は除去）。
func (u *tradeUsecase) collectTags(ctx context.Context, userID uint, names []string) ([]tagentity.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]tagentity.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tag, err := u.tags.FindOrCreate(ctx, userID, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		out = append(out, *tag)
	}
	return out, nil
}
