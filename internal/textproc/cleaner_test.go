package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanNormalProseUnchanged(t *testing.T) {
	out := Clean(sampleProse, DefaultThresholds())
	assert.Equal(t, sampleProse, out)
}

func TestCleanCollapsesPunctRuns(t *testing.T) {
	th := DefaultThresholds()
	in := sampleProse + " Incredibile!!!! Davvero????"
	out := Clean(in, th)
	assert.Contains(t, out, "Incredibile!")
	assert.Contains(t, out, "Davvero?")
	assert.NotContains(t, out, "!!")
	assert.NotContains(t, out, "??")
}

func TestCleanCanonicalizesEllipsis(t *testing.T) {
	out := Clean(sampleProse+" E poi...... il silenzio.", DefaultThresholds())
	assert.Contains(t, out, "E poi... il silenzio.")
	assert.NotContains(t, out, "....")
}

func TestCleanStripsNonLatin(t *testing.T) {
	out := Clean(sampleProse+" 你好 мир", DefaultThresholds())
	assert.NotContains(t, out, "你好")
	assert.NotContains(t, out, "мир")
	assert.Contains(t, out, "detective")
}

func TestCleanKeepsItalianTypography(t *testing.T) {
	in := sampleProse + " L'ombra dell'uomo — “così” disse."
	out := Clean(in, DefaultThresholds())
	assert.Contains(t, out, "dell'uomo")
	assert.Contains(t, out, "—")
	assert.Contains(t, out, "“così”")
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	in := sampleProse + "\n\n\n\n\nAltro   paragrafo    qui."
	out := Clean(in, DefaultThresholds())
	assert.NotContains(t, out, "\n\n\n")
	assert.Contains(t, out, "Altro paragrafo qui.")
}

func TestCleanTrimsMarkdownLineEdges(t *testing.T) {
	in := "** Il Titolo **\n" + sampleProse
	out := Clean(in, DefaultThresholds())
	assert.True(t, strings.HasPrefix(out, "Il Titolo"))
	assert.NotContains(t, out, "*")
}

func TestCleanShortResidueReturnsSentinel(t *testing.T) {
	out := Clean("Breve.", DefaultThresholds())
	assert.Equal(t, RegenerationSentinel, out)
	assert.True(t, NeedsRegeneration(out))
}

func TestCleanAllNonLatinReturnsSentinel(t *testing.T) {
	out := Clean(strings.Repeat("战争与和平 ", 30), DefaultThresholds())
	assert.Equal(t, RegenerationSentinel, out)
}

func TestCleanIdempotent(t *testing.T) {
	th := DefaultThresholds()
	inputs := []string{
		sampleProse,
		sampleProse + " Incredibile!!!! E poi...... fine.",
		"** Titolo **\n\n\n\n" + sampleProse + "   con    spazi.",
		"Breve.",
	}
	for _, in := range inputs {
		once := Clean(in, th)
		twice := Clean(once, th)
		require.Equal(t, once, twice, "input: %q", in)
	}
}
