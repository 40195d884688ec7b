package puzzle

// Shuffle scrambles the grid. The order of the row groups is randomised and
// then the order of the tiles inside each row, so tiles always stay with the
// tiles that shared their home row. This is not a uniform permutation.
//
// Afterwards the tile at (0, 0) becomes the cursor tile.
func (b *Board) Shuffle() {
	if len(b.slots) == 0 {
		return
	}

	groups := make([][]int, b.rows)
	for r := range groups {
		groups[r] = append([]int(nil), b.slots[r*b.cols:(r+1)*b.cols]...)
	}

	b.rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})
	for _, g := range groups {
		b.rng.Shuffle(len(g), func(i, j int) {
			g[i], g[j] = g[j], g[i]
		})
	}

	for r, g := range groups {
		for c, id := range g {
			b.slots[b.slotIndex(r, c)] = id
			b.tiles[id].RelocateTo(r, c)
			b.tiles[id].cursor = false
		}
	}

	b.tiles[b.slots[0]].cursor = true
	b.cursorRow, b.cursorCol = 0, 0
}
