package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// RegenerationSentinel 清洗失败时返回的哨兵标记，
// 调用方据此将该阶段输出视为失败并走降级路径
const RegenerationSentinel = "[CONTENUTO_DA_RIGENERARE]"

// NeedsRegeneration 判断文本是否为哨兵标记
func NeedsRegeneration(text string) bool {
	return strings.TrimSpace(text) == RegenerationSentinel
}

var (
	multiSpacePattern = regexp.MustCompile(`[ \t]{2,}`)
	blankLinePattern  = regexp.MustCompile(`\n{3,}`)
	ellipsisPattern   = regexp.MustCompile(`\.{3,}`)
)

// lineEdgeCutset 行首尾要剥除的 markdown 残留字符
const lineEdgeCutset = "*_#>` \t"

// Clean 对已接受的文本做尽力而为的规范化
// 幂等：对已清洗文本再次调用返回原文
// 清洗后短于阈值或仍判定损坏时返回 RegenerationSentinel
func Clean(text string, th Thresholds) string {
	out := stripNonLatin(text)
	out = ellipsisPattern.ReplaceAllString(out, "...")
	out = collapsePunctRuns(out)
	out = multiSpacePattern.ReplaceAllString(out, " ")
	out = trimLineEdges(out)
	out = blankLinePattern.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	if len([]rune(out)) < th.MinCleanedLen || IsCorrupted(out, th) {
		return RegenerationSentinel
	}
	return out
}

// stripNonLatin 移除拉丁语系之外的字符
// 保留基础与扩展拉丁区、常用排版标点（弯引号、破折号等）和空白
func stripNonLatin(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x0250:
			return r
		case r >= 0x2000 && r <= 0x206F:
			return r
		case unicode.IsSpace(r):
			return r
		}
		return -1
	}, text)
}

// collapsePunctRuns 将三个及以上的同一标点连串压缩为单个
// 句点连串已在上游规范为省略号，此处跳过
func collapsePunctRuns(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(runes); {
		r := runes[i]
		j := i + 1
		for j < len(runes) && runes[j] == r {
			j++
		}
		count := j - i
		if count >= 3 && r != '.' && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			b.WriteRune(r)
		} else {
			for k := 0; k < count; k++ {
				b.WriteRune(r)
			}
		}
		i = j
	}
	return b.String()
}

// trimLineEdges 剥除每行首尾的 markdown 残留
func trimLineEdges(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Trim(line, lineEdgeCutset)
	}
	return strings.Join(lines, "\n")
}
