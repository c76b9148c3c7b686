package main

import (
	"path/filepath"
	"testing"

	"github.com/aukilabs/shipyard/ship"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	valid := config{AdminAddr: ":18190", ProbeReach: ship.PlacementReach}
	require.NoError(t, validateConfig(valid))

	noAddr := valid
	noAddr.AdminAddr = ""
	require.Error(t, validateConfig(noAddr))

	noReach := valid
	noReach.ProbeReach = 0
	require.Error(t, validateConfig(noReach))

	saveWithoutFile := valid
	saveWithoutFile.SaveOnExit = true
	require.Error(t, validateConfig(saveWithoutFile))
}

func TestLoadShip(t *testing.T) {
	t.Run("no ship file", func(t *testing.T) {
		interior, err := loadShip(config{})
		require.NoError(t, err)
		require.Empty(t, interior.Parts())
	})

	t.Run("missing ship file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "ship.json")

		_, err := loadShip(config{ShipFile: filename})
		require.Error(t, err)

		interior, err := loadShip(config{ShipFile: filename, SaveOnExit: true})
		require.NoError(t, err)
		require.Empty(t, interior.Parts())
	})

	t.Run("saved ship", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "ship.json")
		saved := ship.NewInterior(nil)
		_, err := saved.AddPart(ship.Tank(3), ship.Layout{})
		require.NoError(t, err)
		require.NoError(t, saved.SaveFile(filename))

		interior, err := loadShip(config{ShipFile: filename})
		require.NoError(t, err)
		require.Equal(t, saved.ID, interior.ID)
		require.Len(t, interior.Parts(), 1)
	})
}
