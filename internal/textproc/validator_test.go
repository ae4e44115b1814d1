package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleProse = "Il detective camminava lentamente lungo il vicolo bagnato, osservando le luci al neon " +
	"che si riflettevano nelle pozzanghere. Ogni ombra della città sembrava nascondere un segreto " +
	"che qualcuno aveva pagato caro per seppellire."

func TestIsCorruptedShortTextAccepted(t *testing.T) {
	th := DefaultThresholds()
	assert.False(t, IsCorrupted("", th))
	assert.False(t, IsCorrupted("Ciao.", th))
	assert.False(t, IsCorrupted("***", th))
}

func TestIsCorruptedNormalProse(t *testing.T) {
	assert.False(t, IsCorrupted(sampleProse, DefaultThresholds()))
}

func TestIsCorruptedPunctRatio(t *testing.T) {
	th := DefaultThresholds()
	text := strings.Repeat("ab,;. ", 20)
	assert.True(t, IsCorrupted(text, th))
}

func TestIsCorruptedPunctRuns(t *testing.T) {
	th := DefaultThresholds()
	assert.True(t, IsCorrupted(sampleProse+" ***", th))
	assert.True(t, IsCorrupted(sampleProse+` """`, th))
	assert.True(t, IsCorrupted(sampleProse+" !!!", th))
	assert.True(t, IsCorrupted(sampleProse+" ....", th))
	// 规范省略号不算异常
	assert.False(t, IsCorrupted(sampleProse+" E poi... silenzio totale.", th))
}

func TestIsCorruptedOnlyPunctuation(t *testing.T) {
	text := strings.Repeat(". - ! ", 15)
	assert.True(t, IsCorrupted(text, DefaultThresholds()))
}

func TestIsCorruptedTooFewWords(t *testing.T) {
	text := "a b c d e f g h i l m n o p q r s t u v z " + strings.Repeat("xy ", 20)
	assert.True(t, IsCorrupted(text, DefaultThresholds()))
}

func TestIsCorruptedDeterministic(t *testing.T) {
	th := DefaultThresholds()
	inputs := []string{sampleProse, "***!!!???", strings.Repeat(".", 80), ""}
	for _, in := range inputs {
		first := IsCorrupted(in, th)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, IsCorrupted(in, th))
		}
	}
}
