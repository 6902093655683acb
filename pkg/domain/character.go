package domain

import (
	"fmt"
	"time"
)

// 画面で選択できる性別ラベルです。プロンプトの文法にのみ使われ、列挙型としての検証はしません。
const (
	GenderBoy  = "boy"
	GenderGirl = "girl"
)

// Character は物語の主人公となる子どものプロフィールを保持します。
// 生成開始後は値として扱い、変更しません。
type Character struct {
	Name          string `json:"name" db:"name"`
	Age           string `json:"age" db:"age"` // 数値として扱うが、保存は自由テキスト
	Gender        string `json:"gender" db:"gender"`
	FavoriteThing string `json:"favoriteThing" db:"favorite_thing"`
}

// CharacterRecord は永続化されたキャラクターです。
type CharacterRecord struct {
	ID int64 `json:"id"`
	Character
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// String はキャラクターの情報を文字列で返します。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.Name, c.Age, c.Gender)
}

// Validate は入力フォーム相当の最低限のチェックを行います。
// 生成パイプライン自体はこの検証を行いません。
func (c Character) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name は必須です", ErrInvalidInput)
	}
	if c.Age == "" {
		return fmt.Errorf("%w: age は必須です", ErrInvalidInput)
	}
	return nil
}
