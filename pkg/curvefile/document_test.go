package curvefile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/wavecurve/pkg/curve"
)

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	l := curve.NewPointList(300)
	l.Insert(120, 0.06, 0.003)
	return NewDocument(300, 0.3, curve.ModeCubic, l)
}

func TestNewDocument(t *testing.T) {
	d := sampleDocument(t)

	assert.Equal(t, Version, d.Version)
	assert.Equal(t, "cubic", d.Mode)
	require.Len(t, d.Points, 3)
	assert.Equal(t, 120.0, d.Points[1].X)
	require.NoError(t, d.Validate())
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	d := sampleDocument(t)

	for _, name := range []string{"curve.json", "curve.yaml", "curve.YML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, Save(path, d))

			got, err := Load(path)
			require.NoError(t, err)
			if diff := cmp.Diff(d, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("document mismatch (-want +got):\n%s", diff)
			}

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temporary file left behind")
		})
	}
}

func TestSaveRemovesTempOnRenameFailure(t *testing.T) {
	// A directory in the way makes the final rename fail.
	path := filepath.Join(t.TempDir(), "curve.json")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "sub"), 0755))

	err := Save(path, sampleDocument(t))

	require.Error(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file left behind")
}

func TestSmallMirrorRoundTrip(t *testing.T) {
	for _, radius := range []float64{0.5, 1} {
		d := NewDocument(radius, 0.3, curve.ModeBezier, curve.NewPointList(radius))

		data, err := ToJSON(d, true)
		require.NoError(t, err)
		got, err := ParseJSON(data)
		require.NoError(t, err, "radius %v", radius)
		assert.Len(t, got.Points, 2)
	}
}

func TestParseYAML(t *testing.T) {
	src := `
version: 1
mirror_radius: 150
wave_height: 0.25
mode: bezier
points:
  - {x: 0, y: 0, lx: -12.5, ly: 0, rx: 12.5, ry: 0}
  - {x: 124.6, y: 0.125, lx: 112.1, ly: 0.125, rx: 137.1, ry: 0.125}
`
	d, err := ParseYAML([]byte(src))
	require.NoError(t, err)

	mode, err := d.CurveMode()
	require.NoError(t, err)
	assert.Equal(t, curve.ModeBezier, mode)

	l, err := d.PointList()
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, curve.Point{X: 124.6, Y: 0.125}, l.At(1).Pos())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "bad version",
			src:  `{"version": 2, "mirror_radius": 300, "wave_height": 0.3, "points": []}`,
			want: ErrInvalidDocument,
		},
		{
			name: "zero radius",
			src:  `{"version": 1, "mirror_radius": 0, "wave_height": 0.3, "points": []}`,
			want: ErrInvalidDocument,
		},
		{
			name: "bad mode",
			src:  `{"version": 1, "mirror_radius": 300, "wave_height": 0.3, "mode": "spline", "points": []}`,
			want: ErrInvalidDocument,
		},
		{
			name: "one anchor",
			src:  `{"version": 1, "mirror_radius": 300, "wave_height": 0.3, "points": [{"x": 0, "lx": -10, "rx": 10}]}`,
			want: curve.ErrInvalidCurve,
		},
		{
			name: "first anchor off centre",
			src: `{"version": 1, "mirror_radius": 300, "wave_height": 0.3, "points": [
				{"x": 5, "lx": -5, "rx": 15}, {"x": 50, "lx": 40, "rx": 60}]}`,
			want: curve.ErrInvalidCurve,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.src))
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"version": `))
	assert.Error(t, err)
	_, err = ParseYAML([]byte("points: [unterminated"))
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := FormatOf("curve.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(t.TempDir(), "curve.toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = Save(filepath.Join(t.TempDir(), "curve"), sampleDocument(t))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFromEditor(t *testing.T) {
	v, err := curve.NewViewTransform(curve.DefaultLayout(), 800, 400, 200, 0.5)
	require.NoError(t, err)
	e := curve.NewEditor(v, curve.WithMode(curve.ModeCubic))

	d := FromEditor(e)

	assert.Equal(t, 200.0, d.MirrorRadius)
	assert.Equal(t, 0.5, d.WaveHeight)
	assert.Equal(t, "cubic", d.Mode)
	assert.Len(t, d.Points, 2)
}
