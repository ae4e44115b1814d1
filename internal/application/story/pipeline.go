package story

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/errors"
	"storymaster-ai-api/pkg/logger"
	"storymaster-ai-api/pkg/metrics"
)

// LLMClient 流水线对上游客户端的依赖
type LLMClient interface {
	Chat(ctx context.Context, apiKey, model string, role openrouter.Role, prompt string) (string, error)
}

// ProgressFunc 阶段进度回调，消息为面向用户的意大利语提示
type ProgressFunc func(message string)

// Pipeline 多阶段故事生成流水线
// 阶段严格串行：每个场景的提示词都嵌入前一场景的结尾摘要，
// 顺序是叙事连贯性的前提，不做并行化
type Pipeline struct {
	llm       LLMClient
	registry  *prompt.Registry
	cfg       config.PipelineConfig
	models    map[string]string
	fallbacks []string

	// now/sleep 可注入，测试时替换
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPipeline 创建流水线
func NewPipeline(llm LLMClient, cfg config.PipelineConfig, or config.OpenRouterConfig) *Pipeline {
	return &Pipeline{
		llm:       llm,
		registry:  prompt.NewRegistry(),
		cfg:       cfg,
		models:    or.RoleModels,
		fallbacks: or.FallbackModels,
		now:       time.Now,
		sleep: func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
				return nil
			}
		},
	}
}

// modelFor 返回角色的首选模型，未配置时退到第一个降级模型
func (p *Pipeline) modelFor(role openrouter.Role) string {
	if m, ok := p.models[string(role)]; ok && m != "" {
		return m
	}
	if len(p.fallbacks) > 0 {
		return p.fallbacks[0]
	}
	return ""
}

// alternateModel 场景级重试用的备选模型，按场景序号轮转
func (p *Pipeline) alternateModel(index int) string {
	if len(p.fallbacks) == 0 {
		return ""
	}
	return p.fallbacks[index%len(p.fallbacks)]
}

func emit(progress ProgressFunc, msg string) {
	if progress != nil {
		progress(msg)
	}
}

// Generate 执行完整流水线并返回装配好的故事
// 蓝图阶段硬失败或缺少 API 密钥是仅有的终止性错误，
// 其余阶段失败一律降级：场景退化为占位，润色与配图失败保留原样
func (p *Pipeline) Generate(ctx context.Context, apiKey string, sel *entity.WizardSelections, progress ProgressFunc) (*entity.Story, error) {
	start := p.now()

	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingAPIKey
	}
	if err := sel.Validate(); err != nil {
		return nil, errors.ErrInvalidParam.WithDetail(err.Error())
	}

	emit(progress, "🚀 Inizializzazione sistema collaborativo AI...")

	profiles := ""
	if p.cfg.EnablePsychology {
		emit(progress, "🧠 LLM Psicologo: Profilando i personaggi...")
		profiles = p.generateCharacterProfiles(ctx, apiKey, sel)
	}

	emit(progress, "🏗️ LLM Architetto: Progettando la struttura narrativa...")
	narrative, err := p.generateBlueprint(ctx, apiKey, sel, profiles)
	if err != nil {
		metrics.StoryGenerationTotal.WithLabelValues("failed").Inc()
		logger.Error(ctx, "蓝图阶段失败，流水线终止", err)
		return nil, errors.Wrap(err, errors.CodeGenerationFailed, "generazione della struttura narrativa fallita")
	}

	bp := ParseBlueprint(narrative)
	if len(bp.Scenes) == 0 {
		// 蓝图文本可用但场景块缺失，合成规划保证场景数完整
		bp.Scenes = syntheticPlans(p.cfg.SceneCount)
	}

	atmosphere := ""
	if p.cfg.EnableAtmosphere {
		emit(progress, "🎭 Definendo le atmosfere delle scene...")
		atmosphere = p.generateAtmosphereNotes(ctx, apiKey, sel, narrative)
	}

	scenes := p.writeScenes(ctx, apiKey, sel, narrative, atmosphere, bp, progress)

	if p.cfg.EnableContinuity {
		emit(progress, "🔗 Verificando la continuità narrativa...")
		p.verifyContinuity(ctx, apiKey, scenes)
	}

	scenes = p.polishScenes(ctx, apiKey, scenes, progress)
	p.addImagePrompts(ctx, apiKey, sel, scenes, progress)

	emit(progress, "🔧 Assemblando la storia finale...")
	st := p.assemble(bp.Title, scenes)

	metrics.StoryGenerationTotal.WithLabelValues("success").Inc()
	metrics.StoryGenerationDuration.Observe(p.now().Sub(start).Seconds())
	metrics.StoryWordCount.Observe(float64(st.WordCount))

	logger.Info(ctx, "故事生成完成",
		"story_id", st.ID,
		"title", st.Title,
		"scenes", len(st.Scenes),
		"placeholders", st.PlaceholderCount(),
		"word_count", st.WordCount,
	)
	return st, nil
}

// syntheticPlans 蓝图场景块解析失败时的合成规划
func syntheticPlans(count int) []entity.ScenePlan {
	if count <= 0 {
		count = 6
	}
	plans := make([]entity.ScenePlan, count)
	for i := range plans {
		plans[i] = entity.ScenePlan{
			Index:       i + 1,
			Title:       defaultSceneTitle(i + 1),
			Description: fmt.Sprintf("SCENA_%d: sviluppa la parte %d di %d della storia seguendo la struttura narrativa.", i+1, i+1, count),
		}
	}
	return plans
}

func defaultSceneTitle(index int) string {
	return fmt.Sprintf("Scena %d", index)
}
