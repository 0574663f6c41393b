// Package adapters はtagsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trade_backend/internal/feature/tags/domain/entity"
	"trade_backend/internal/feature/tags/usecase"
)

// tagPostgres はTagRepositoryインターフェースのPostgreSQL実装です。
type tagPostgres struct {
	db *gorm.DB
}

// tagPostgresがTagRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.TagRepository = (*tagPostgres)(nil)

// NewTagRepository は指定されたgorm.DB接続でtagPostgresの新しいインスタンスを生成します。
func NewTagRepository(db *gorm.DB) *tagPostgres {
	return &tagPostgres{db: db}
}

// FindOrCreate はユーザーのタグを名前で取得し、無ければ作成します。
// タグ名はユーザーごとに一意です。
func (r *tagPostgres) FindOrCreate(ctx context.Context, userID uint, name string) (*entity.Tag, error) {
	var tag entity.Tag
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = entity.Tag{
		ID:     uuid.NewString(),
		Name:   name,
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Search はユーザーのタグを名前の前方一致で検索します。
func (r *tagPostgres) Search(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error) {
	var tags []entity.Tag
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC")
	if prefix != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", prefix+"%")
	}
	if err := q.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
