// Package entity はフィーチャー間で共有されるドメインエンティティを定義します。
package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Socials はプロフィールに表示するSNSリンクの固定セットです。
// 値はいずれも空文字またはhttp(s)のURLです。
type Socials struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	GitHub    string `json:"github,omitempty"`
}

// User は登録済みユーザーを表します。
type User struct {
	// ID はユーザーの一意な識別子です。
	ID uint `gorm:"primaryKey"`

	// Name は表示名です。
	Name string `gorm:"size:100;not null"`

	// Email はログインに使用するメールアドレスです。全ユーザーで一意です。
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password はbcryptでハッシュ化されたパスワードです。平文は保存しません。
	Password string `gorm:"size:255;not null" json:"-"`

	// Bio は任意の自己紹介文です。
	Bio string `gorm:"type:text"`

	// Socials はJSONカラムとして保存されます。
	Socials datatypes.JSONType[Socials]

	// Sections はユーザーが履修しているセクションです（user_sections経由）。
	Sections []Section `gorm:"many2many:user_sections;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
