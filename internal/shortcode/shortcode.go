// Package shortcode 提供短码与数据库自增 ID 之间的 Base62 互转
//
// 短码直接由映射记录的 ID 推导：ID 唯一则短码必然唯一，
// 因此生成短码不需要查重、加锁或重试。
// 字符集顺序为 0-9, a-z, A-Z，与历史数据保持一致，不可更改。
package shortcode

import (
	"errors"
)

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(62)

var (
	// ErrNonPositiveID 当 ID 不是正整数时返回：短码只对已入库的记录有定义
	ErrNonPositiveID = errors.New("短码生成要求正整数 ID")

	// ErrInvalidCharacter 当输入包含字符集之外的字符时返回
	ErrInvalidCharacter = errors.New("短码包含非法字符")
)

// charValue 将字符映射回 0-61 的数值，非法字符为 -1
var charValue [256]int8

func init() {
	for i := range charValue {
		charValue[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		charValue[alphabet[i]] = int8(i)
	}
}

// Encode 将正整数 ID 编码为 Base62 短码
//
// 反复取模、整除，最后反转得到高位在前的结果：
//
//	Encode(1)   → "1"
//	Encode(61)  → "Z"
//	Encode(62)  → "10"
//	Encode(125) → "21"
func Encode(id uint64) (string, error) {
	if id == 0 {
		return "", ErrNonPositiveID
	}

	buf := make([]byte, 0, 11) // 62^11 > MaxUint64，11 位足够
	for id > 0 {
		buf = append(buf, alphabet[id%base])
		id /= base
	}
	// 反转：上面是从低位到高位构建的
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// Decode 将 Base62 短码解码回数值 ID
func Decode(code string) (uint64, error) {
	if code == "" {
		return 0, ErrInvalidCharacter
	}

	var n uint64
	for i := 0; i < len(code); i++ {
		v := charValue[code[i]]
		if v < 0 {
			return 0, ErrInvalidCharacter
		}
		n = n*base + uint64(v)
	}
	return n, nil
}

// IsValid 检查字符串是否只含 Base62 字符集中的字符
func IsValid(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if charValue[code[i]] < 0 {
			return false
		}
	}
	return true
}
