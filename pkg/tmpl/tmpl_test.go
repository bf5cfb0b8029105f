package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appData struct {
	ID      string
	Package string
}

func TestRender_RemoveTemplates(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		data appData
		want string
	}{
		{
			name: "default appx removal",
			tmpl: "Get-AppxPackage -AllUsers {{ psq .Package }} | Remove-AppxPackage -AllUsers",
			data: appData{Package: "Microsoft.BingNews"},
			want: "Get-AppxPackage -AllUsers 'Microsoft.BingNews' | Remove-AppxPackage -AllUsers",
		},
		{
			name: "wildcard package passes through quoted",
			tmpl: "Get-AppxPackage {{ .Package | psq }}",
			data: appData{Package: "*Xbox*"},
			want: "Get-AppxPackage '*Xbox*'",
		},
		{
			name: "winget style with id",
			tmpl: "winget uninstall --id {{ psq .Package }} # {{ .ID }}",
			data: appData{ID: "app-teams", Package: "Microsoft.Teams"},
			want: "winget uninstall --id 'Microsoft.Teams' # app-teams",
		},
		{
			name: "posix quoting for non-windows shells",
			tmpl: "pkg remove {{ shq .Package }}",
			data: appData{Package: "it's"},
			want: `pkg remove 'it'\''s'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Errors(t *testing.T) {
	_, err := Render("{{ .Package }", appData{})
	require.ErrorContains(t, err, "parse template")

	_, err = Render("{{ .Version }}", appData{})
	require.ErrorContains(t, err, "execute template")

	_, err = Render("{{ .Missing }}", map[string]string{"Package": "x"})
	require.Error(t, err, "missing map keys must not render as <no value>")
}

func TestPsQuote(t *testing.T) {
	assert.Equal(t, "''", psQuote(""))
	assert.Equal(t, "'it''s'", psQuote("it's"))
	assert.Equal(t, "'$(Remove-Item C:\\)'", psQuote("$(Remove-Item C:\\)"), "subexpressions stay inert")
	assert.Equal(t, "'a; b'", psQuote("a; b"))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "''", shellQuote(""))
	assert.Equal(t, "'hello world'", shellQuote("hello world"))
	assert.Equal(t, `'say "hi"'`, shellQuote(`say "hi"`))
	assert.Equal(t, "'$(whoami)'", shellQuote("$(whoami)"))
}

func TestRender_Join(t *testing.T) {
	got, err := Render(`{{ join .Args " " }}`, map[string][]string{"Args": {"-NoProfile", "-Command"}})
	require.NoError(t, err)
	assert.Equal(t, "-NoProfile -Command", got)
}
