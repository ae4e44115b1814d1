// Package prompt 管理各生成阶段的提示词模板
// 模板以文本文件形式嵌入，经 text/template 渲染并缓存编译结果
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// ID 模板标识
type ID string

const (
	PsychologyV1  ID = "psychology_v1"
	BlueprintV1   ID = "blueprint_v1"
	AtmosphereV1  ID = "atmosphere_v1"
	SceneV1       ID = "scene_v1"
	SceneSimpleV1 ID = "scene_simple_v1"
	ContinuityV1  ID = "continuity_v1"
	EditingV1     ID = "editing_v1"
	ImagePromptV1 ID = "image_prompt_v1"
)

// Registry 模板注册表，按需加载并缓存
type Registry struct {
	mu    sync.RWMutex
	cache map[ID]*template.Template
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[ID]*template.Template),
	}
}

// Render 渲染指定模板
func (r *Registry) Render(id ID, data any) (string, error) {
	tpl, err := r.load(id)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("渲染模板 %s 失败: %w", id, err)
	}
	return b.String(), nil
}

func (r *Registry) load(id ID) (*template.Template, error) {
	r.mu.RLock()
	if tpl, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[id]; ok {
		return tpl, nil
	}

	raw, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.txt", id))
	if err != nil {
		return nil, fmt.Errorf("读取模板 %s 失败: %w", id, err)
	}
	tpl, err := template.New(string(id)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("编译模板 %s 失败: %w", id, err)
	}
	r.cache[id] = tpl
	return tpl, nil
}
