package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"nav":{"about":"About","services":"Services"},"site":{"name":"M25"},"count":3}`)},
		"locales/ka.json": {Data: []byte(`{"nav":{"about":"ჩვენ შესახებ"}}`)},
	}
}

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Load(testFS(), "locales", "en", []string{"en", "ka"})
	require.NoError(t, err)
	require.Equal(t, "ka", b.Resolve("en;q=0.8, ka;q=0.9"))
	require.Equal(t, "ka", b.Resolve("ka-GE,ka;q=0.9"))
	require.Equal(t, "en", b.Resolve("fr-FR"))
	require.Equal(t, "en", b.Resolve(""))
	require.Equal(t, "en", b.Resolve(";;;"))
}

func TestTranslateFallsBack(t *testing.T) {
	b, err := Load(testFS(), "locales", "en", []string{"en", "ka"})
	require.NoError(t, err)
	require.Equal(t, "ჩვენ შესახებ", b.T("ka", "nav.about"))
	require.Equal(t, "Services", b.T("ka", "nav.services"), "missing key falls back to default locale")
	require.Equal(t, "nav.missing", b.T("ka", "nav.missing"))
	require.Equal(t, "3", b.T("en", "count"))
	require.Equal(t, "About", b.Func("fr")("nav.about"))
	require.Equal(t, "M25 x2", b.Tf("en", "%s x%d", "M25", 2), "unknown key is used as format")
}

func TestLoadMissingFiles(t *testing.T) {
	fsys := fstest.MapFS{"locales/en.json": {Data: []byte(`{}`)}}
	b, err := Load(fsys, "locales", "en", []string{"en", "ka"})
	require.NoError(t, err)
	require.True(t, b.Has("en"))
	require.False(t, b.Has("ka"))
	require.Equal(t, []string{"en", "ka"}, b.Supported())

	_, err = Load(fstest.MapFS{}, "locales", "en", []string{"en"})
	require.Error(t, err)

	_, err = Load(fsys, "locales", "de", []string{"en"})
	require.Error(t, err)

	bad := fstest.MapFS{"locales/en.json": {Data: []byte(`{`)}}
	_, err = Load(bad, "locales", "en", nil)
	require.Error(t, err)
}
