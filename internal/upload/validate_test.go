package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("alice@example.com"))
	assert.True(t, ValidEmail("a.b+c@sub.domain.io"))

	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("alice"))
	assert.False(t, ValidEmail("alice@nodot"))
	assert.False(t, ValidEmail("alice @example.com"))
	assert.False(t, ValidEmail("@example.com"))
}

func TestNormalizeURL(t *testing.T) {
	got, err := NormalizeURL("alice.dev")
	require.NoError(t, err)
	assert.Equal(t, "https://alice.dev", got)

	got, err = NormalizeURL("http://alice.dev/work")
	require.NoError(t, err)
	assert.Equal(t, "http://alice.dev/work", got)

	_, err = NormalizeURL("not a url")
	assert.Error(t, err)

	_, err = NormalizeURL("")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Figma", "Vercel", "Tailwind"}, SplitList("Figma, Vercel ,Tailwind"))
	assert.Equal(t, []string{"solo"}, SplitList("solo"))
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList(" , ,"))
}

func TestAtHandle(t *testing.T) {
	assert.Equal(t, "@alice", AtHandle("alice"))
	assert.Equal(t, "@alice", AtHandle("@alice"))
	assert.Equal(t, "", AtHandle(""))
}

func TestAllowedMedia(t *testing.T) {
	assert.True(t, AllowedMedia("image/png", "image/"))
	assert.True(t, AllowedMedia("video/mp4", "video/"))
	assert.False(t, AllowedMedia("application/pdf", "image/"))
	assert.False(t, AllowedMedia("image/png", "video/"))
	assert.False(t, AllowedMedia("", "image/"))
}
