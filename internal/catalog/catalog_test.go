package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymaster-ai-api/pkg/errors"
)

func TestGenres(t *testing.T) {
	gs := Genres()
	require.Len(t, gs, 4)
	for _, g := range gs {
		assert.NotEmpty(t, g.ID)
		assert.NotEmpty(t, g.Name)
		assert.NotEmpty(t, g.Tones)
	}
}

func TestGenreByID(t *testing.T) {
	g, err := GenreByID("noir-thriller")
	require.NoError(t, err)
	assert.Equal(t, "Noir Psicologico", g.Name)

	_, err = GenreByID("unknown")
	assert.Error(t, err)
}

func TestAuthorStylesFilterByGenre(t *testing.T) {
	all := AuthorStyles("")
	assert.Len(t, all, 4)

	noir := AuthorStyles("noir-thriller")
	require.Len(t, noir, 1)
	assert.Equal(t, "chandler-style", noir[0].ID)
}

func TestCharacterArchetypesFilterByGenre(t *testing.T) {
	magical := CharacterArchetypes("magical-realism")
	require.Len(t, magical, 2)
	for _, c := range magical {
		assert.Contains(t, c.CompatibleGenres, "magical-realism")
	}
}

func TestSettingAndPlotLookups(t *testing.T) {
	s, err := SettingTemplateByID("rain-soaked-city")
	require.NoError(t, err)
	assert.Equal(t, "Città sotto la Pioggia", s.Name)

	p, err := PlotStructureByID("cyclical-legacy")
	require.NoError(t, err)
	assert.Len(t, p.Acts, 3)

	assert.Len(t, PlotStructures("historical-drama"), 1)
}

func TestVisualStyles(t *testing.T) {
	vs := VisualStyles()
	require.Len(t, vs, 8)

	v, err := VisualStyleByID("cinematic")
	require.NoError(t, err)
	assert.Contains(t, v.PromptFragment, "cinematic")
}

func TestLookupErrorsAreIndependent(t *testing.T) {
	_, err1 := GenreByID("missing-one")
	require.Error(t, err1)
	_, err2 := GenreByID("missing-two")
	require.Error(t, err2)

	first := errors.AsAppError(err1)
	second := errors.AsAppError(err2)
	assert.Equal(t, "genre: missing-one", first.Detail)
	assert.Equal(t, "genre: missing-two", second.Detail)
	assert.Empty(t, errors.ErrElementNotFound.Detail)
}
