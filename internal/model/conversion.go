// Package model はドメインモデルを定義する。
package model

// Conversion は1シンボル分の換算結果を表す。永続化はしない。
// Rateはレートそのものではなく、換算後の金額を小数第2位で丸めた値を保持する
// （上流フィード由来のフィールド名をAPI互換のため維持している）。
type Conversion struct {
	Symbol string  `json:"symbol"`
	To     string  `json:"to"`
	Rate   float64 `json:"rate"`
}
