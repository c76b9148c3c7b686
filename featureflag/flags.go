package featureflag

type Flag string

const (
	// Check new parts against the part boxes of the ship with an exact box
	// test.
	FlagExactBoxTest Flag = "EXACT_BOX_TEST"

	// Do not maintain the part box tree. Placement is checked on the grid
	// only.
	FlagSkipTreeRebuild Flag = "SKIP_TREE_REBUILD"
)

// Known returns the flags the service understands.
func Known() []Flag {
	return []Flag{
		FlagExactBoxTest,
		FlagSkipTreeRebuild,
	}
}
