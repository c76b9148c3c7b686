package ship

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/shipyard/collision"
	"github.com/aukilabs/shipyard/models"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func newSavedInterior(t *testing.T) *Interior {
	body := models.NewBody(models.Pose{
		Position:    mgl64.Vec3{1, 2, 3},
		Orientation: mgl64.QuatRotate(0.5, mgl64.Vec3{0, 0, 1}),
	})
	i := NewInterior(body)

	_, err := i.AddPart(Tank(3), Layout{Orientation: ry90})
	require.NoError(t, err)
	_, err = i.AddPart(FuelCell(), Layout{X: 3})
	require.NoError(t, err)
	_, err = i.AddPanel(Panel{
		Vertices: [3]collision.Cell{{X: 5, Y: 5, Z: 5}, {X: 6, Y: 5, Z: 6}, {X: 5, Y: 6, Z: 6}},
		Model:    "metal",
	})
	require.NoError(t, err)
	return i
}

func requireSameInterior(t *testing.T, expected, actual *Interior) {
	require.Equal(t, expected.ID, actual.ID)
	require.True(t, expected.Body.Position().ApproxEqualThreshold(actual.Body.Position(), 1e-9))
	require.True(t, expected.Body.Orientation().ApproxEqualThreshold(actual.Body.Orientation(), 1e-9))

	parts := actual.Parts()
	require.Len(t, parts, len(expected.Parts()))
	for n, p := range expected.Parts() {
		require.Equal(t, p.Part.Model(), parts[n].Part.Model())
		require.Equal(t, p.Layout, parts[n].Layout)
		require.Equal(t, p.Cells, parts[n].Cells)
	}

	panels := actual.Panels()
	require.Len(t, panels, len(expected.Panels()))
	for n, p := range expected.Panels() {
		require.Equal(t, p.Panel, panels[n].Panel)
		require.Equal(t, p.Cells, panels[n].Cells)
	}
}

func TestInteriorSave(t *testing.T) {
	t.Run("encode and decode", func(t *testing.T) {
		i := newSavedInterior(t)

		var buf bytes.Buffer
		require.NoError(t, i.Encode(&buf))

		loaded, err := Decode(&buf)
		require.NoError(t, err)
		requireSameInterior(t, i, loaded)
	})

	t.Run("file", func(t *testing.T) {
		i := newSavedInterior(t)
		filename := filepath.Join(t.TempDir(), "ship.json")

		require.NoError(t, i.SaveFile(filename))
		loaded, err := LoadFile(filename)
		require.NoError(t, err)
		requireSameInterior(t, i, loaded)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := Decode(strings.NewReader("{"))
		require.True(t, errors.IsType(err, ErrTypeInvalidSave))
	})

	t.Run("invalid orientation", func(t *testing.T) {
		_, err := Load(SaveInterior{
			Parts: []SavePart{{Model: "fuel_cell", Offsets: []Layout{{}}, Layout: Layout{Orientation: 99}}},
		})
		require.True(t, errors.IsType(err, ErrTypeInvalidSave))
	})

	t.Run("part without blocks", func(t *testing.T) {
		_, err := Load(SaveInterior{
			Parts: []SavePart{{Model: "empty"}},
		})
		require.True(t, errors.IsType(err, ErrTypeInvalidSave))
	})

	t.Run("overlapping parts", func(t *testing.T) {
		_, err := Load(SaveInterior{
			Parts: []SavePart{
				{Model: "fuel_cell", Offsets: []Layout{{}}},
				{Model: "fuel_cell", Offsets: []Layout{{}}},
			},
		})
		require.True(t, errors.IsType(err, ErrTypeInvalidSave))
	})

	t.Run("failed load drops the part gauge", func(t *testing.T) {
		_, err := Load(SaveInterior{
			ID: "failed-load",
			Parts: []SavePart{
				{Model: "fuel_cell", Offsets: []Layout{{}}},
				{Model: "fuel_cell", Offsets: []Layout{{}}},
			},
		})
		require.Error(t, err)
		require.False(t, partCount.DeleteLabelValues("failed-load"))
	})

	t.Run("missing pose", func(t *testing.T) {
		i, err := Load(SaveInterior{})
		require.NoError(t, err)
		require.Equal(t, mgl64.QuatIdent(), i.Body.Orientation())
		require.NotEmpty(t, i.ID)
	})
}
