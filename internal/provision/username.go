package provision

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// maxUsernameAttempts はユーザー名交渉の試行回数上限。
// 1つの名に対する接尾辞候補は900通りのため、上限到達は実運用ではまず起きない。
const maxUsernameAttempts = 10

// SuffixSource は[0, n)の乱数を返す関数。
// テストで衝突を決定的に再現できるよう、乱数源は注入可能にする。
type SuffixSource func(n int) int

// UsernameGenerator はユーザー名候補を生成する。
type UsernameGenerator struct {
	randInt SuffixSource
}

// NewUsernameGenerator はUsernameGeneratorを生成する。
// srcがnilの場合はmath/rand/v2のグローバル乱数源を使用する。
func NewUsernameGenerator(src SuffixSource) *UsernameGenerator {
	if src == nil {
		src = rand.IntN
	}
	return &UsernameGenerator{randInt: src}
}

// Candidate はユーザー名候補を生成する。
// 形式は lowercase(firstName) + 3桁の数字（100〜999）。
func (g *UsernameGenerator) Candidate(firstName string) string {
	base := strings.ToLower(strings.TrimSpace(firstName))
	suffix := 100 + g.randInt(900)
	return base + strconv.Itoa(suffix)
}
