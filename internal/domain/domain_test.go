package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserMessage(t *testing.T) {
	m := NewUserMessage("Что такое ТМГ?")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, RoleUser, m.Role)
	assert.Equal(t, "Что такое ТМГ?", m.Content)
	assert.False(t, m.CreatedAt.IsZero())
	assert.False(t, m.Pending())
}

func TestNewAssistantMessage(t *testing.T) {
	sources := []Source{{ID: "s1", Title: "ГОСТ 11677-85", Kind: SourceKindStandard}}
	m := NewAssistantMessage("ТМГ — герметичный масляный трансформатор.", sources)
	assert.Equal(t, RoleAssistant, m.Role)
	assert.False(t, m.Pending())
	require.Len(t, m.Sources, 1)
	assert.Equal(t, SourceKindStandard, m.Sources[0].Kind)
}

func TestNewPendingMessage(t *testing.T) {
	m := NewPendingMessage()
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, RoleAssistant, m.Role)
	assert.Empty(t, m.Content)
	assert.True(t, m.Pending())
}

func TestMessageIDsUnique(t *testing.T) {
	a := NewUserMessage("a")
	b := NewUserMessage("b")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRestoreNeverPending(t *testing.T) {
	m := NewPendingMessage()
	restored := Restore(m.ID, m.Role, m.Content, m.CreatedAt, nil)
	assert.False(t, restored.Pending())
}

func TestTitleFromContent(t *testing.T) {
	short := "Характеристики ТМГ-1000"
	assert.Equal(t, short, TitleFromContent(short))

	long := strings.Repeat("а", 60)
	title := TitleFromContent(long)
	assert.Equal(t, strings.Repeat("а", 40)+"…", title)
}

func TestPreviewFromContent(t *testing.T) {
	long := strings.Repeat("б", 100)
	preview := PreviewFromContent(long)
	assert.Equal(t, strings.Repeat("б", 80)+"…", preview)
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// 40 Cyrillic runes are 80 bytes; no truncation should happen.
	s := strings.Repeat("щ", 40)
	assert.Equal(t, s, TitleFromContent(s))
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("substations")
	require.NoError(t, err)
	assert.Equal(t, DomainSubstations, d)

	_, err = ParseDomain("astrophysics")
	assert.Error(t, err)
}

func TestDomainsClosed(t *testing.T) {
	ds := Domains()
	assert.Len(t, ds, 4)
	for _, d := range ds {
		assert.True(t, d.Valid())
	}
	assert.False(t, Domain("").Valid())
}
