package story

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaster-ai-api/internal/application/story/prompt"
	"storymaster-ai-api/internal/catalog"
	"storymaster-ai-api/internal/config"
	"storymaster-ai-api/internal/domain/entity"
	"storymaster-ai-api/internal/infrastructure/openrouter"
	"storymaster-ai-api/pkg/errors"
)

// fakeLLM 可编排的假客户端，记录每次调用
type fakeLLM struct {
	mu      sync.Mutex
	calls   []fakeCall
	handler func(call fakeCall) (string, error)
}

type fakeCall struct {
	Model  string
	Role   openrouter.Role
	Prompt string
	Seq    int
}

func (f *fakeLLM) Chat(_ context.Context, _ string, model string, role openrouter.Role, p string) (string, error) {
	f.mu.Lock()
	call := fakeCall{Model: model, Role: role, Prompt: p, Seq: len(f.calls)}
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	return f.handler(call)
}

func (f *fakeLLM) callsForRole(role openrouter.Role) []fakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fakeCall
	for _, c := range f.calls {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}

func testPipelineConfig(sceneCount int) config.PipelineConfig {
	return config.PipelineConfig{
		SceneCount:        sceneCount,
		SceneDelay:        time.Second,
		EditDelay:         800 * time.Millisecond,
		ImageDelay:        500 * time.Millisecond,
		MinSceneContent:   100,
		ImagePromptMaxLen: 150,
	}
}

func testOpenRouterConfig() config.OpenRouterConfig {
	return config.OpenRouterConfig{
		RoleModels: map[string]string{
			"architect":    "model-architect",
			"psychologist": "model-psychologist",
			"writer":       "model-writer",
			"editor":       "model-editor",
			"continuity":   "model-continuity",
			"image":        "model-image",
		},
		FallbackModels: []string{"fb-1", "fb-2", "fb-3"},
	}
}

func newTestPipeline(llm LLMClient, cfg config.PipelineConfig) (*Pipeline, *[]time.Duration) {
	p := NewPipeline(llm, cfg, testOpenRouterConfig())
	p.now = func() time.Time { return time.Unix(1700000000, 0) }
	var waits []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return p, &waits
}

func testSelections() *entity.WizardSelections {
	genre, _ := catalog.GenreByID("literary-fantasy")
	author, _ := catalog.AuthorStyleByID("borges-style")
	protagonist, _ := catalog.CharacterArchetypeByID("reluctant-sage")
	setting, _ := catalog.SettingTemplateByID("forgotten-library")
	plot, _ := catalog.PlotStructureByID("revelation-spiral")
	style, _ := catalog.VisualStyleByID("fantasy_art")
	return &entity.WizardSelections{
		Genre:       genre,
		Author:      author,
		Protagonist: protagonist,
		Setting:     setting,
		Plot:        plot,
		Style:       style,
	}
}

func narrativeWithScenes(n int) string {
	var b strings.Builder
	b.WriteString("TITOLO: Il Custode dei Libri Perduti\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "SCENA_%d: \"Parte %d\"\nOBIETTIVO: avanzare la trama\nMOOD: misterioso\nCOLLEGAMENTO: verso la scena successiva\n\n", i, i)
	}
	b.WriteString("ELEMENTI_RICORRENTI:\nSIMBOLI: una chiave antica\n")
	return b.String()
}

func sceneReply(i int) string {
	return fmt.Sprintf("TITOLO_SCENA: Capitolo %d\n\nCONTENUTO:\n%s\n\nSTATO_EMOTIVO: tensione\n\nGANCIO: Qualcosa si muove nell'ombra della scena %d.", i, longContent, i)
}

// 两场景蓝图全部成功：2 个非占位场景，词数大于零
func TestGenerateTwoScenesHappyPath(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		switch c.Role {
		case openrouter.RoleArchitect:
			return narrativeWithScenes(2), nil
		case openrouter.RoleWriter:
			return sceneReply(len(llm.callsForRole(openrouter.RoleWriter))), nil
		case openrouter.RoleEditor:
			return "TITOLO_PERFEZIONATO: Capitolo Rivisto\n\nCONTENUTO_PERFEZIONATO:\n" + longContent, nil
		case openrouter.RoleImage:
			return "Ancient library interior, robed scholar among endless shelves, shafts of golden light, mist", nil
		}
		return "", fmt.Errorf("ruolo inatteso %s", c.Role)
	}

	p, waits := newTestPipeline(llm, testPipelineConfig(2))
	var progress []string
	st, err := p.Generate(context.Background(), "sk-test", testSelections(), func(m string) { progress = append(progress, m) })
	require.NoError(t, err)

	assert.Equal(t, "Il Custode dei Libri Perduti", st.Title)
	require.Len(t, st.Scenes, 2)
	for _, sc := range st.Scenes {
		assert.False(t, sc.Placeholder)
		assert.NotEmpty(t, sc.Content)
		assert.NotEmpty(t, sc.ImagePrompt)
	}
	assert.Greater(t, st.WordCount, 0)
	assert.GreaterOrEqual(t, st.EstimatedReadingTime, 1)
	assert.Equal(t, "1700000000000", st.ID)

	// 场景间与润色间的停顿
	assert.Contains(t, *waits, time.Second)
	assert.Contains(t, *waits, 800*time.Millisecond)

	// 进度消息按阶段顺序发出
	require.NotEmpty(t, progress)
	assert.Contains(t, progress[0], "Inizializzazione")
	assert.Contains(t, progress[len(progress)-1], "Assemblando")
}

// 场景 2 的提示词必须嵌入场景 1 的摘要与钩子
func TestGenerateSequentialContext(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		switch c.Role {
		case openrouter.RoleArchitect:
			return narrativeWithScenes(2), nil
		case openrouter.RoleWriter:
			return sceneReply(len(llm.callsForRole(openrouter.RoleWriter))), nil
		default:
			return "", fmt.Errorf("stage disabilitato")
		}
	}

	cfg := testPipelineConfig(2)
	p, _ := newTestPipeline(llm, cfg)
	_, err := p.Generate(context.Background(), "sk-test", testSelections(), nil)
	require.NoError(t, err)

	writerCalls := llm.callsForRole(openrouter.RoleWriter)
	require.Len(t, writerCalls, 2)
	assert.Contains(t, writerCalls[0].Prompt, "Prima scena della storia.")
	assert.Contains(t, writerCalls[1].Prompt, "SCENE_PRECEDENTI_GENERATE")
	assert.Contains(t, writerCalls[1].Prompt, "Capitolo 1")
	assert.Contains(t, writerCalls[1].Prompt, "Gancio verso la scena successiva")
}

// 蓝图后每次调用都失败：场景全部退化为占位，故事仍然完整
func TestGenerateAllCallsFailAfterBlueprint(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		if c.Role == openrouter.RoleArchitect {
			return narrativeWithScenes(3), nil
		}
		return "", errors.ErrLLMProvider
	}

	p, _ := newTestPipeline(llm, testPipelineConfig(3))
	st, err := p.Generate(context.Background(), "sk-test", testSelections(), nil)
	require.NoError(t, err)

	require.Len(t, st.Scenes, 3)
	for i, sc := range st.Scenes {
		assert.True(t, sc.Placeholder, "scena %d", i+1)
		assert.Contains(t, sc.Content, "[Scena da rigenerare")
		assert.NotEmpty(t, sc.ImagePrompt)
	}
	assert.Equal(t, 3, st.PlaceholderCount())
	assert.GreaterOrEqual(t, st.EstimatedReadingTime, 1)

	// 失败阶梯：主模型、备选模型、简化提示词各一次
	writerCalls := llm.callsForRole(openrouter.RoleWriter)
	assert.Len(t, writerCalls, 9)
}

// 蓝图硬失败是终止性错误
func TestGenerateBlueprintFailureIsTerminal(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		return "", errors.ErrLLMProvider
	}

	p, _ := newTestPipeline(llm, testPipelineConfig(2))
	_, err := p.Generate(context.Background(), "sk-test", testSelections(), nil)
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeGenerationFailed, appErr.Code)
}

func TestGenerateMissingAPIKey(t *testing.T) {
	p, _ := newTestPipeline(&fakeLLM{handler: func(fakeCall) (string, error) { return "", nil }}, testPipelineConfig(2))
	_, err := p.Generate(context.Background(), "   ", testSelections(), nil)
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeMissingAPIKey, appErr.Code)
}

func TestGenerateInvalidSelections(t *testing.T) {
	p, _ := newTestPipeline(&fakeLLM{handler: func(fakeCall) (string, error) { return "", nil }}, testPipelineConfig(2))
	_, err := p.Generate(context.Background(), "sk-test", &entity.WizardSelections{}, nil)
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.CodeInvalidParam, appErr.Code)
}

// 蓝图文本可用但场景块缺失时合成规划，场景数仍等于配置值
func TestGenerateSyntheticPlansWhenBlueprintUnparsable(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		switch c.Role {
		case openrouter.RoleArchitect:
			return "Una struttura narrativa libera senza blocchi riconoscibili. " + longContent, nil
		case openrouter.RoleWriter:
			return sceneReply(1), nil
		default:
			return "", errors.ErrLLMProvider
		}
	}

	p, _ := newTestPipeline(llm, testPipelineConfig(4))
	st, err := p.Generate(context.Background(), "sk-test", testSelections(), nil)
	require.NoError(t, err)
	assert.Len(t, st.Scenes, 4)
}

// 心理与氛围阶段失败不影响流水线
func TestGenerateOptionalStagesDegradeSilently(t *testing.T) {
	llm := &fakeLLM{}
	llm.handler = func(c fakeCall) (string, error) {
		switch c.Role {
		case openrouter.RolePsychologist:
			return "", errors.ErrLLMProvider
		case openrouter.RoleArchitect:
			if len(llm.callsForRole(openrouter.RoleArchitect)) == 1 {
				return narrativeWithScenes(2), nil
			}
			return "", errors.ErrLLMProvider
		case openrouter.RoleWriter:
			return sceneReply(len(llm.callsForRole(openrouter.RoleWriter))), nil
		case openrouter.RoleContinuity:
			return "CONTINUITA_OK", nil
		case openrouter.RoleEditor, openrouter.RoleImage:
			return "", errors.ErrLLMProvider
		}
		return "", errors.ErrLLMProvider
	}

	cfg := testPipelineConfig(2)
	cfg.EnablePsychology = true
	cfg.EnableAtmosphere = true
	cfg.EnableContinuity = true

	p, _ := newTestPipeline(llm, cfg)
	st, err := p.Generate(context.Background(), "sk-test", testSelections(), nil)
	require.NoError(t, err)
	require.Len(t, st.Scenes, 2)
	for _, sc := range st.Scenes {
		assert.False(t, sc.Placeholder)
		// 配图失败时回退到体裁/场景拼接的通用提示词
		assert.Contains(t, sc.ImagePrompt, "Fantasy Letterario")
	}
}

func TestNormalizeImagePrompt(t *testing.T) {
	sel := testSelections()

	// 过泛的短提示词回退
	generic := normalizeImagePrompt(`"cinematic scene, high quality"`, sel, 0)
	assert.Contains(t, generic, "Fantasy Letterario")

	// 正常提示词附加所选风格片段并限长
	out := normalizeImagePrompt("Ancient library, robed scholar reading a forbidden tome under candlelight with dust motes", sel, 0)
	assert.LessOrEqual(t, len([]rune(out)), 150)
	assert.Contains(t, out, "fantasy art")
}

func TestNormalizeImagePromptCustomMaxLen(t *testing.T) {
	sel := testSelections()
	long := "Ancient library, robed scholar reading a forbidden tome under candlelight with dust motes"

	out := normalizeImagePrompt(long, sel, 40)
	assert.LessOrEqual(t, len([]rune(out)), 40)

	out = fallbackImagePrompt(sel, 30)
	assert.LessOrEqual(t, len([]rune(out)), 30)
}

func TestFallbackImagePromptWithoutStyle(t *testing.T) {
	sel := testSelections()
	sel.Style = nil
	out := fallbackImagePrompt(sel, 0)
	assert.Contains(t, out, "cinematic, high quality")
	assert.Contains(t, out, "Biblioteca Dimenticata")
}

// prompt 模板全部可渲染
func TestPromptTemplatesRender(t *testing.T) {
	reg := prompt.NewRegistry()
	ids := []prompt.ID{
		prompt.PsychologyV1, prompt.BlueprintV1, prompt.AtmosphereV1,
		prompt.SceneV1, prompt.SceneSimpleV1, prompt.ContinuityV1,
		prompt.EditingV1, prompt.ImagePromptV1,
	}
	data := map[string]any{
		"GenreName": "Noir", "GenreDescription": "d", "AuthorName": "a", "AuthorDescription": "d",
		"ProtagonistName": "p", "ProtagonistDescription": "d", "ProtagonistMotivations": "m", "ProtagonistFlaws": "f",
		"AntagonistName": "x", "AntagonistDescription": "d", "SettingName": "s", "SettingDescription": "d",
		"SettingAtmosphere": "cupa", "PlotName": "t", "PlotDescription": "d", "SceneCount": 6,
		"CharacterProfiles": "profili", "Narrative": "n", "PreviousContext": "c", "AtmosphereNotes": "note",
		"SceneStructure": "sc", "Title": "t", "Content": "c", "ContentExcerpt": "e", "StyleName": "st",
		"PreviousEnding": "fine", "PreviousHook": "gancio", "CurrentOpening": "apertura",
	}
	for _, id := range ids {
		out, err := reg.Render(id, data)
		require.NoError(t, err, "template %s", id)
		assert.NotEmpty(t, out)
	}
}
