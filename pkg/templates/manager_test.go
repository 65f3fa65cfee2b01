package templates

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Execute(t *testing.T) {
	fsys := fstest.MapFS{
		"hello.tmpl": {Data: []byte(`{{upper .Coin}} {{comma .Mentions}} {{percent .Momentum}}`)},
	}

	manager, err := NewManagerWithValidation(fsys, []string{"hello.tmpl"})
	require.NoError(t, err)

	out, err := manager.ExecuteTemplate("hello.tmpl", map[string]any{
		"Coin":     "btc",
		"Mentions": 12345,
		"Momentum": 50.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "BTC 12,345 50.00%", out)
}

func TestManager_Errors(t *testing.T) {
	_, err := NewManager(fstest.MapFS{}, "*.tmpl")
	assert.Error(t, err)

	fsys := fstest.MapFS{"a.tmpl": {Data: []byte(`a`)}}
	_, err = NewManagerWithValidation(fsys, []string{"missing.tmpl"})
	assert.Error(t, err)

	manager, err := NewManager(fsys)
	require.NoError(t, err)
	_, err = manager.ExecuteTemplate("nope.tmpl", nil)
	assert.Error(t, err)
	assert.True(t, manager.TemplateExists("a.tmpl"))
}

func TestFuncMap_Since(t *testing.T) {
	since := GetDefaultFuncMap()["since"].(func(time.Time, time.Time) string)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "2 hours ago", since(now.Add(-2*time.Hour), now))
}
