package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryKeyStringHasBinding(t *testing.T) {
	for s, name := range GlobalKeyStringsMap {
		binding, ok := GlobalkeyBindings[name]
		require.True(t, ok, "no binding for %q", s)
		assert.Contains(t, binding.Keys(), s)
	}
}

func TestEveryBindingHasHelp(t *testing.T) {
	for name, binding := range GlobalkeyBindings {
		info := GetKeyHelp(name)
		assert.NotEqual(t, HelpCategoryUncategory, info.Category, "key %v", binding.Keys())
		assert.NotEmpty(t, binding.Help().Desc)
	}
}

func TestLookup(t *testing.T) {
	name, ok := Lookup("l")
	require.True(t, ok)
	assert.Equal(t, KeyNext, name)

	_, ok = Lookup("x")
	assert.False(t, ok)
}

func TestHelpMap(t *testing.T) {
	var m HelpMap
	assert.Len(t, m.ShortHelp(), 7)

	full := m.FullHelp()
	require.Len(t, full, 3)
	assert.Len(t, full[0], 6)
	assert.Equal(t, GlobalkeyBindings[KeyPrev].Help(), full[0][0].Help())
	assert.Len(t, full[1], 3)
	assert.Len(t, full[2], 3)

	assert.Equal(t, HelpCategoryUncategory, GetKeyHelp(KeyName(99)).Category)
}
