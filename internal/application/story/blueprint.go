package story

import (
	"regexp"
	"strings"

	"storymaster-ai-api/internal/domain/entity"
)

// defaultStoryTitle 蓝图未给出标题时的兜底
const defaultStoryTitle = "La Tua Storia Epica"

var (
	sceneBlockPattern = regexp.MustCompile(`SCENA_(\d+):`)
	storyTitlePattern = regexp.MustCompile(`TITOLO:[ \t]*(.+)`)
	sceneTitlePattern = regexp.MustCompile(`SCENA_\d+:[ \t]*"([^"]+)"`)
	blocksEndPattern  = regexp.MustCompile(`ELEMENTI_RICORRENTI:`)
)

// ParseBlueprint 从架构师输出中提取故事标题与各场景规划块
// 每个块从 SCENA_n: 起，到下一个 SCENA_ 或 ELEMENTI_RICORRENTI 或文本末尾止
func ParseBlueprint(narrative string) entity.Blueprint {
	bp := entity.Blueprint{Title: ExtractStoryTitle(narrative)}

	locs := sceneBlockPattern.FindAllStringIndex(narrative, -1)
	for i, loc := range locs {
		end := len(narrative)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		} else if m := blocksEndPattern.FindStringIndex(narrative[loc[0]:]); m != nil {
			end = loc[0] + m[0]
		}
		block := strings.TrimSpace(narrative[loc[0]:end])
		if block == "" {
			continue
		}
		plan := entity.ScenePlan{
			Index:       i + 1,
			Title:       extractSceneTitle(block, i+1),
			Description: block,
		}
		bp.Scenes = append(bp.Scenes, plan)
	}
	return bp
}

// ExtractStoryTitle 提取 TITOLO 行，缺失时返回兜底标题
func ExtractStoryTitle(narrative string) string {
	if m := storyTitlePattern.FindStringSubmatch(narrative); m != nil {
		if t := strings.TrimSpace(stripBrackets(m[1])); t != "" {
			return t
		}
	}
	return defaultStoryTitle
}

func extractSceneTitle(block string, index int) string {
	if m := sceneTitlePattern.FindStringSubmatch(block); m != nil {
		return strings.TrimSpace(m[1])
	}
	return defaultSceneTitle(index)
}

// stripBrackets 去掉模型照抄模板占位符时留下的方括号
func stripBrackets(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	return s
}
