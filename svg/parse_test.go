package svg

import (
	stdcol "image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []command
	}{
		{"separated", "M 10,20 L 30 40 z", []command{{'M', []float64{10, 20}}, {'L', []float64{30, 40}}, {'z', nil}}},
		{"compact", "M1.5.5l-2-3", []command{{'M', []float64{1.5, .5}}, {'l', []float64{-2, -3}}}},
		{"exponent", "M1e2 2E-1", []command{{'M', []float64{100, .2}}}},
		{"repeated", "m0 0 1 1 2 2", []command{{'m', []float64{0, 0, 1, 1, 2, 2}}}},
		{"arc flags", "M0 0a5 5 0 1010 0", []command{{'M', []float64{0, 0}}, {'a', []float64{5, 5, 0, 1, 0, 10, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := commands(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandsErrors(t *testing.T) {
	for _, in := range []string{"L0 0", "M0 0 X1", "M", "M0 0 L1", "M0 0a1 1 0 2 0 1 1"} {
		t.Run(in, func(t *testing.T) {
			_, err := commands(in)
			assert.Error(t, err)
		})
	}
}

func TestPathsFromDescription(t *testing.T) {
	paths, err := PathsFromDescription("M2 2h4v4h-4zM10 10l2 0")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.True(t, paths[0].Closed())
	assert.False(t, paths[1].Closed())

	r, ok := Bounds(paths)
	require.True(t, ok)
	assert.Equal(t, "2 2 10 8", r.String())
}

func TestPathsAfterClose(t *testing.T) {
	// A relative command after z starts from the closed subpath's start point
	paths, err := PathsFromDescription("M5 5h2v2zl1 1")
	require.NoError(t, err)
	require.Len(t, paths, 2)
	steps := paths[1].Steps()
	assert.Equal(t, []float64{5, 5}, steps[0][0])
	assert.Equal(t, []float64{6, 6}, steps[1][0])
}

func TestSmoothCurves(t *testing.T) {
	paths, err := PathsFromDescription("M0 0C0 10 10 10 10 0S20 -10 20 0")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	steps := paths[0].Steps()
	require.Len(t, steps, 3)
	// Reflection of (10,10) about (10,0)
	assert.Equal(t, []float64{10, -10}, steps[2][0])

	paths, err = PathsFromDescription("M0 0Q5 10 10 0T20 0")
	require.NoError(t, err)
	steps = paths[0].Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, []float64{15, -10}, steps[2][0])
}

func TestParseValueUnit(t *testing.T) {
	v, u, err := ParseValueUnit(" 24px ")
	require.NoError(t, err)
	assert.Equal(t, 24.0, v)
	assert.Equal(t, "px", u)

	v, err = ParseValue("")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = ParseValue("abc")
	assert.Error(t, err)
}

func TestParseViewBox(t *testing.T) {
	r, err := ParseViewBox("0,0 24 24.5")
	require.NoError(t, err)
	assert.Equal(t, Rect{0, 0, 24, 24.5}, r)

	_, err = ParseViewBox("0 0 24")
	assert.Error(t, err)
	_, err = ParseViewBox("0 0 -1 2")
	assert.Error(t, err)
}

func TestParseColor(t *testing.T) {
	assert.Nil(t, ParseColor("none"))
	assert.NotNil(t, ParseColor("#fff"))
	assert.Equal(t, stdcol.NRGBA{0, 0xff, 0, 0xff}, ParseColor("#00ff00"))
	assert.Equal(t, stdcol.NRGBA{0, 0xff, 0, 0xff}, ParseColor("#0f0f"))
	assert.Equal(t, stdcol.NRGBA{0x11, 0x22, 0x33, 0}, ParseColor("#11223300"))
	assert.Equal(t, stdcol.RGBA{}, ParseColor("transparent"))
	assert.Nil(t, ParseColor("#12345"))
	assert.Nil(t, ParseColor("#zzz"))
	assert.Nil(t, ParseColor("url(#gradient)"))
}

func TestStyle(t *testing.T) {
	props := ParseStyle(" fill: none ;stroke:red;;bogus")
	assert.Equal(t, map[string]string{"fill": "none", "stroke": "red"}, props)

	delete(props, "fill")
	props["stroke"] = "blue"
	assert.Equal(t, "stroke:blue", FormatStyle("fill:none;stroke:red", props))
}
