// Package textproc 提供 LLM 输出文本的损坏检测与清洗
// 免费模型偶尔返回乱码、重复标点或非拉丁字符填充的内容，
// 该包在接受阶段输出之前对文本做启发式质量判定和规范化
package textproc

import (
	"regexp"
	"unicode"
)

// Thresholds 质量判定阈值，均为启发式经验值
type Thresholds struct {
	// MinClassifyLen 短于该 rune 数的文本不做损坏判定
	MinClassifyLen int
	// MaxPunctRatio 标点与字母数量之比的上限
	MaxPunctRatio float64
	// MinWords 长度达到 MinWordLen 的字母词的最少个数
	MinWords int
	// MinWordLen 计入词数统计的最小词长
	MinWordLen int
	// MinCleanedLen 清洗后文本的最小 rune 数，不足则视为需重新生成
	MinCleanedLen int
}

// DefaultThresholds 返回默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinClassifyLen: 50,
		MaxPunctRatio:  0.4,
		MinWords:       10,
		MinWordLen:     3,
		MinCleanedLen:  100,
	}
}

var (
	// punctRunPattern 异常标点连串
	// 省略号的规范形式是三个点，因此句点要求四连才算异常
	punctRunPattern = regexp.MustCompile(`[*]{3,}|["]{3,}|[!?]{3,}|\.{4,}`)
	// wordPattern 拉丁字母词
	wordPattern = regexp.MustCompile(`[a-zA-ZàèéìòùÀÈÉÌÒÙ]+`)
)

// IsCorrupted 判定文本是否疑似损坏
// 判定是确定性的：相同输入永远得到相同结果
func IsCorrupted(text string, th Thresholds) bool {
	runes := []rune(text)
	if len(runes) < th.MinClassifyLen {
		return false
	}

	letters, puncts := 0, 0
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			puncts++
		}
	}

	// 全是标点和空白
	if letters == 0 {
		return true
	}
	if float64(puncts)/float64(letters) > th.MaxPunctRatio {
		return true
	}
	if punctRunPattern.MatchString(text) {
		return true
	}

	words := 0
	for _, w := range wordPattern.FindAllString(text, -1) {
		if len([]rune(w)) >= th.MinWordLen {
			words++
		}
	}
	return words < th.MinWords
}
