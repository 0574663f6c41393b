package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade_backend/internal/feature/tags/domain/entity"
)

// mockTagRepository はテスト用のTagRepositoryモック実装です。
type mockTagRepository struct {
	findOrCreateFn func(ctx context.Context, userID uint, name string) (*entity.Tag, error)
	searchFn       func(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error)
}

func (m *mockTagRepository) FindOrCreate(ctx context.Context, userID uint, name string) (*entity.Tag, error) {
	return m.findOrCreateFn(ctx, userID, name)
}

func (m *mockTagRepository) Search(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error) {
	return m.searchFn(ctx, userID, prefix)
}

func TestTagsSearch_TrimsPrefix(t *testing.T) {
	repo := &mockTagRepository{
		searchFn: func(ctx context.Context, userID uint, prefix string) ([]entity.Tag, error) {
			assert.Equal(t, uint(10), userID)
			assert.Equal(t, "swing", prefix)
			return []entity.Tag{{ID: "tag-1", Name: "swing", UserID: userID}}, nil
		},
	}
	u := NewTagsUsecase(repo)

	got, err := u.Search(context.Background(), 10, " swing ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "swing", got[0].Name)
}
