package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsMarketOpen(t *testing.T) {
	loc := MarketLocation()

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "平日の取引時間中はtrue",
			now:  time.Date(2025, 6, 16, 11, 0, 0, 0, loc), // 月曜
			want: true,
		},
		{
			name: "開始時刻ちょうど(9:10)はtrue",
			now:  time.Date(2025, 6, 16, 9, 10, 0, 0, loc),
			want: true,
		},
		{
			name: "終了時刻ちょうど(15:30)はtrue",
			now:  time.Date(2025, 6, 16, 15, 30, 0, 0, loc),
			want: true,
		},
		{
			name: "開始1分前はfalse",
			now:  time.Date(2025, 6, 16, 9, 9, 59, 0, loc),
			want: false,
		},
		{
			name: "終了後はfalse",
			now:  time.Date(2025, 6, 16, 15, 30, 1, 0, loc),
			want: false,
		},
		{
			name: "土曜はfalse",
			now:  time.Date(2025, 6, 14, 11, 0, 0, 0, loc),
			want: false,
		},
		{
			name: "日曜はfalse",
			now:  time.Date(2025, 6, 15, 11, 0, 0, 0, loc),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMarketOpen(tt.now))
		})
	}
}

func TestWithinTradingHours(t *testing.T) {
	loc := MarketLocation()

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{
			name: "セッション中のtickはtrue",
			ts:   time.Date(2025, 6, 16, 10, 0, 0, 0, loc),
			want: true,
		},
		{
			name: "寄り付きちょうど(9:15)はtrue",
			ts:   time.Date(2025, 6, 16, 9, 15, 0, 0, loc),
			want: true,
		},
		{
			name: "プレオープン(9:12)はfalse",
			ts:   time.Date(2025, 6, 16, 9, 12, 0, 0, loc),
			want: false,
		},
		{
			name: "大引けちょうど(15:30)はtrue",
			ts:   time.Date(2025, 6, 16, 15, 30, 0, 0, loc),
			want: true,
		},
		{
			name: "土曜のタイムスタンプはfalse",
			ts:   time.Date(2025, 6, 14, 10, 0, 0, 0, loc),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinTradingHours(tt.ts))
		})
	}
}

func TestWithinTradingHours_OtherZone(t *testing.T) {
	// UTCで与えられたタイムスタンプもISTに変換して判定される
	ts := time.Date(2025, 6, 16, 5, 0, 0, 0, time.UTC) // 10:30 IST
	assert.True(t, WithinTradingHours(ts))
}
