package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()
	assert.Contains(t, info, "enerchat")
	assert.Contains(t, info, Version)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", short("abc"))
	assert.Equal(t, "1234567", short("1234567890"))
	assert.Equal(t, "", short(""))
}
