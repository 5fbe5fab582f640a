// Package masonry positions bricks into a multi-column, variable-height
// masonry arrangement.
//
// # Overview
//
// Bricks are rectangular units read from a [Host] (a DOM, an HTML document,
// a live browser page or an in-memory scene). The [Engine] walks them in
// input order and places each one in a column slot, stacking it below the
// most recent brick already in that column. There is no row grid and no
// backward revision: brick i depends only on bricks 0..i-1.
//
// # Placement Rule
//
// Brick 0 sits at the boundary origin. For every later brick the engine
// takes the previous brick's right edge plus the column gap. If that edge is
// still inside the first column it advances to the second column slot
// (columnWidth + columnGap); otherwise it continues at that edge. A
// candidate at or beyond the boundary width wraps back to the boundary's
// left edge. The vertical offset is then resolved by the column tracker:
// the most recent brick with exactly the same x, if it collides with the
// candidate, pushes the candidate to its bottom plus the row gap. An empty
// column starts at the boundary top.
//
// Wrapping returns to the first column only; there is no second set of
// columns. After a wrap the engine compares against the single most recent
// occupant of the column, not every brick in it.
//
// # Usage
//
//	engine, err := masonry.New(host, masonry.Container("#grid"),
//	    masonry.WithColumnWidth(240),
//	    masonry.WithColumnGap(12),
//	    masonry.WithRowGap(12),
//	)
//	if err != nil {
//	    return err // errors.ErrCodeInvalidConfiguration for width <= 0
//	}
//	if err := engine.Layout(); err != nil {
//	    return err // host write failures; positions are committed anyway
//	}
//	snapshot := engine.Snapshot()
//
// # Concurrency
//
// An Engine owns its brick registry exclusively. Layout is a synchronous
// loop and must not be called concurrently on the same Engine.
package masonry
