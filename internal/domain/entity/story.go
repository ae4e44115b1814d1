// Package entity 定义领域实体
package entity

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// readingWordsPerMinute 阅读时长估算基准（词/分钟）
const readingWordsPerMinute = 200

// Story 最终装配完成的故事
type Story struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Content              string    `json:"content"`
	Scenes               []Scene   `json:"scenes"`
	WordCount            int       `json:"word_count"`
	EstimatedReadingTime int       `json:"estimated_reading_time"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewStory 从标题与场景装配故事并计算派生字段
// 正文由各场景正文按空行拼接，ID 派生自创建时刻的毫秒时间戳
func NewStory(title string, scenes []Scene, now time.Time) *Story {
	parts := make([]string, 0, len(scenes))
	for _, sc := range scenes {
		parts = append(parts, sc.Content)
	}
	content := strings.Join(parts, "\n\n")

	wc := CountWords(content)
	return &Story{
		ID:                   strconv.FormatInt(now.UnixMilli(), 10),
		Title:                title,
		Content:              content,
		Scenes:               scenes,
		WordCount:            wc,
		EstimatedReadingTime: EstimateReadingTime(wc),
		CreatedAt:            now,
	}
}

// CountWords 统计空白分隔的词数
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingTime 估算阅读分钟数，至少为 1
func EstimateReadingTime(wordCount int) int {
	minutes := int(math.Ceil(float64(wordCount) / readingWordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PlaceholderCount 统计占位场景数量
func (s *Story) PlaceholderCount() int {
	n := 0
	for _, sc := range s.Scenes {
		if sc.Placeholder {
			n++
		}
	}
	return n
}
