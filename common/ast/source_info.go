package ast

// Position is a half-open byte-offset span [Start, End) into the source.
type Position struct {
	Start, End int
}

// Location is a 1-indexed line/column pair resolved from a byte offset.
type Location struct {
	Line   int
	Column int
}

// SourceInfo records everything about the source text that the AST
// itself does not: the text, a description (e.g. a file name used only
// for error messages), every node's byte span, line-start offsets for
// offset→line/col resolution, and the pre-expansion form of any macro
// call so a formatter can recover surface syntax without re-parsing.
type SourceInfo struct {
	Description string
	Source      string

	positions  map[ExprID]Position
	lineOffset []int // byte offset of the start of each line; lineOffset[0] == 0

	// MacroCalls maps the ID of a comprehension produced by macro
	// expansion back to the original Call expression, e.g. `r.exists(v,p)`.
	MacroCalls map[ExprID]Expr
}

// NewSourceInfo builds a SourceInfo for src, pre-computing line offsets.
func NewSourceInfo(description, src string) *SourceInfo {
	offsets := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &SourceInfo{
		Description: description,
		Source:      src,
		positions:   map[ExprID]Position{},
		lineOffset:  offsets,
		MacroCalls:  map[ExprID]Expr{},
	}
}

// SetPosition records the byte span of the node with the given id.
func (s *SourceInfo) SetPosition(id ExprID, pos Position) {
	s.positions[id] = pos
}

// PositionOf returns the recorded span for id, or the zero Position if
// none was recorded.
func (s *SourceInfo) PositionOf(id ExprID) Position {
	return s.positions[id]
}

// GetLocation resolves a byte offset to a 1-indexed line/column, used to
// format escaping errors per spec §7.
func (s *SourceInfo) GetLocation(offset int) Location {
	line := 0
	for i := 1; i < len(s.lineOffset); i++ {
		if s.lineOffset[i] > offset {
			break
		}
		line = i
	}
	col := offset - s.lineOffset[line] + 1
	return Location{Line: line + 1, Column: col}
}
