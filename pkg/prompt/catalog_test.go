package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	es := c.For("es-ES")
	en := c.For("en")

	assert.Equal(t, "No se generaron preguntas.", es.NoQuestionsGenerated)
	assert.Equal(t, "No questions were generated.", en.NoQuestionsGenerated)
	assert.Equal(t, "Sin requisitos.", es.NoRequirements)
	assert.Equal(t, "(empty)", en.EmptyCategory)
	assert.Equal(t, en, c.For("fr"))
}

func TestMessages_RequirementsAddedFor(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	es, err := c.For("es").RequirementsAddedFor("security")
	require.NoError(t, err)
	assert.Contains(t, es, "de seguridad")

	en, err := c.For("en").RequirementsAddedFor("technical")
	require.NoError(t, err)
	assert.Contains(t, en, "technical requirements")
}

func TestMessages_CategoryLabel(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	assert.Equal(t, "técnicos", c.For("es").CategoryLabel("technical"))
	assert.Equal(t, "custom", c.For("es").CategoryLabel("custom"))
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("es: [unclosed"))
	assert.Error(t, err)
}
