package provision

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordLength は生成パスワードの文字数。
const passwordLength = 6

// passwordAlphabet はパスワード生成に使う文字集合。
// 視認で紛らわしい文字（0/O、1/l/I/i、o）は除外している。
const passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GeneratePassword は6文字のワンタイムパスワードを生成する。
// crypto/randにより文字集合から一様に抽選する。
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))

	buf := make([]byte, passwordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}

	return string(buf), nil
}
