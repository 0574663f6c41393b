// Package entity はtagsフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Tag はユーザーごとのトレード分類ラベルです。
// 同一ユーザー内で名前は一意で、トレード作成・更新時に必要に応じて作成されます。
type Tag struct {
	// ID はUUID文字列の主キーです。
	ID string `gorm:"primaryKey;size:36"`

	// Name はタグ名です。ユーザー内で一意です。
	Name string `gorm:"size:100;not null;uniqueIndex:tag_user_name,priority:2"`

	// UserID は所有ユーザーです。
	UserID uint `gorm:"not null;index;uniqueIndex:tag_user_name,priority:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName gorm用のテーブル名です。
func (Tag) TableName() string {
	return "tags"
}
