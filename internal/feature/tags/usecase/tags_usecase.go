// Package usecase はタグ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"trade_backend/internal/feature/tags/domain/entity"
)

// TagRepository はタグの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TagRepository interface {
	// FindOrCreate はユーザーのタグを名前で取得し、無ければ作成します。
	FindOrCreate(ctx context.Context, userID uint, name string) (*entity.Tag, error)
	// Search はユーザーのタグを名前の前方一致で検索します。
	Search(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error)
}

// tagsUsecase はタグ操作のユースケースを定義します。
type tagsUsecase struct {
	tags TagRepository
}

// NewTagsUsecase はtagsUsecaseの新しいインスタンスを生成します。
func NewTagsUsecase(tags TagRepository) *tagsUsecase {
	return &tagsUsecase{tags: tags}
}

// Search はユーザーのタグを前方一致で検索します。
// オートコンプリート用途のため、空のプレフィックスは全件を返します。
func (u *tagsUsecase) Search(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error) {
	return u.tags.Search(ctx, userID, strings.TrimSpace(prefix))
}
