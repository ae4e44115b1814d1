package story

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaster-ai-api/internal/domain/entity"
)

var longContent = strings.Repeat("Il vento attraversava la biblioteca sollevando pagine ingiallite. ", 6)

func TestParseSceneLabeledOutput(t *testing.T) {
	raw := "TITOLO_SCENA: Il Risveglio\n\nCONTENUTO:\n" + longContent +
		"\n\nSTATO_EMOTIVO: inquietudine\n\nGANCIO: Un rumore alle sue spalle.\n\nSIMBOLI: chiave, specchio"

	sc := ParseScene(raw, 1, nil, 0)
	assert.Equal(t, "Il Risveglio", sc.Title)
	assert.Equal(t, strings.TrimSpace(longContent), sc.Content)
	assert.Equal(t, "inquietudine", sc.EmotionalState)
	assert.Equal(t, "Un rumore alle sue spalle.", sc.Hook)
	assert.Equal(t, []string{"chiave", "specchio"}, sc.Symbols)
}

func TestParseSceneShortLabeledContent(t *testing.T) {
	raw := "TITOLO: Una Scena\nCONTENUTO:\nTesto qui."
	sc := ParseScene(raw, 1, nil, 0)
	assert.Equal(t, "Una Scena", sc.Title)
	assert.Equal(t, "Testo qui.", sc.Content)
}

func TestParseScenePolishedLabels(t *testing.T) {
	raw := "TITOLO_PERFEZIONATO: Il Risveglio Rivisto\n\nCONTENUTO_PERFEZIONATO:\n" + longContent
	sc := ParseScene(raw, 2, nil, 0)
	assert.Equal(t, "Il Risveglio Rivisto", sc.Title)
	assert.Equal(t, strings.TrimSpace(longContent), sc.Content)
}

func TestParseSceneCaseInsensitiveLabels(t *testing.T) {
	raw := "titolo scena: Minuscolo\ncontenuto:\n" + longContent
	sc := ParseScene(raw, 1, nil, 0)
	assert.Equal(t, "Minuscolo", sc.Title)
}

func TestParseSceneNoLabelsShortFirstLineBecomesTitle(t *testing.T) {
	raw := "La Notte Lunga\n\n" + longContent
	sc := ParseScene(raw, 3, nil, 0)
	assert.Equal(t, "La Notte Lunga", sc.Title)
	assert.NotContains(t, sc.Content, "La Notte Lunga")
	assert.Contains(t, sc.Content, "biblioteca")
}

func TestParseSceneFallbackPriority(t *testing.T) {
	fallback := &entity.Scene{Title: "Titolo Precedente", Content: longContent, Hook: "gancio precedente"}

	// 提取内容过短时优先用 fallback 的正文
	sc := ParseScene("TITOLO: Nuovo\nCONTENUTO:\nBreve.", 1, fallback, 0)
	assert.Equal(t, "Nuovo", sc.Title)
	assert.Equal(t, longContent, sc.Content)
	assert.Equal(t, "gancio precedente", sc.Hook)
}

func TestParseSceneCustomMinContent(t *testing.T) {
	fallback := &entity.Scene{Content: longContent}
	raw := "TITOLO: Corto\nCONTENUTO:\nUn paragrafo breve ma completo che basta da solo."

	// 阈值放宽后短正文直接通过，不触发回退
	sc := ParseScene(raw, 1, fallback, 20)
	assert.Equal(t, "Un paragrafo breve ma completo che basta da solo.", sc.Content)

	// 默认阈值下同样的正文走回退链
	sc = ParseScene(raw, 1, fallback, 0)
	assert.Equal(t, longContent, sc.Content)
}

func TestParseSceneNeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", "\n\n\n", "...", "!?!", "x"}
	for _, in := range inputs {
		sc := ParseScene(in, 4, nil, 0)
		require.NotEmpty(t, sc.Title, "input %q", in)
		require.NotEmpty(t, sc.Content, "input %q", in)
		assert.Equal(t, 4, sc.Index)
	}
}

func TestParseBlueprint(t *testing.T) {
	narrative := `TITOLO: Il Custode dei Libri Perduti

ARCO_NARRATIVO:
TEMA_CENTRALE: la memoria

SCENA_1: "L'Inizio"
OBIETTIVO: presentare il protagonista
MOOD: misterioso

SCENA_2: "La Chiamata"
OBIETTIVO: l'evento scatenante
MOOD: tensione

ELEMENTI_RICORRENTI:
SIMBOLI: una chiave antica`

	bp := ParseBlueprint(narrative)
	assert.Equal(t, "Il Custode dei Libri Perduti", bp.Title)
	require.Len(t, bp.Scenes, 2)
	assert.Equal(t, "L'Inizio", bp.Scenes[0].Title)
	assert.Equal(t, "La Chiamata", bp.Scenes[1].Title)
	assert.Contains(t, bp.Scenes[0].Description, "OBIETTIVO: presentare il protagonista")
	// 场景块不吞并 ELEMENTI_RICORRENTI 段
	assert.NotContains(t, bp.Scenes[1].Description, "ELEMENTI_RICORRENTI")
}

func TestParseBlueprintMissingTitle(t *testing.T) {
	bp := ParseBlueprint("SCENA_1: qualcosa\ntesto")
	assert.Equal(t, "La Tua Storia Epica", bp.Title)
	require.Len(t, bp.Scenes, 1)
	assert.Equal(t, "Scena 1", bp.Scenes[0].Title)
}

func TestParseBlueprintNoScenes(t *testing.T) {
	bp := ParseBlueprint("testo senza struttura riconoscibile")
	assert.Empty(t, bp.Scenes)
}
