package provider

import (
	"sort"

	"github.com/luadts/luadts/luagen/annotation"
)

// Block is a contiguous run of comment lines together with the directives
// parsed from them. A block is either attached to exactly one statement or
// orphaned; orphaned blocks still synthesize module-level declarations.
type Block struct {
	StartLine  int
	EndLine    int
	Lines      []annotation.Line
	Directives []annotation.Directive
}

// empty reports whether the block carries no lines at all. Statements with
// no preceding comments get an empty block, never a nil one.
func (b *Block) empty() bool { return len(b.Lines) == 0 }

// associate groups comment lines into blocks and binds each block to the
// statement starting on the line right after the block's last line. The
// returned slice is indexed like stmts; every entry is non-nil. Blocks that
// no statement claimed come back as orphans, in source order.
func associate(stmts []Statement, comments []annotation.Line) (attached []*Block, orphans []*Block, err error) {
	sorted := make([]annotation.Line, len(comments))
	copy(sorted, comments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	// Merge strictly line-adjacent comments; any gap starts a new block.
	var blocks []*Block
	for _, line := range sorted {
		if n := len(blocks); n > 0 && blocks[n-1].EndLine == line.Number-1 {
			blocks[n-1].Lines = append(blocks[n-1].Lines, line)
			blocks[n-1].EndLine = line.Number
			continue
		}
		blocks = append(blocks, &Block{
			StartLine: line.Number,
			EndLine:   line.Number,
			Lines:     []annotation.Line{line},
		})
	}

	for _, b := range blocks {
		b.Directives, err = annotation.Parse(b.Lines)
		if err != nil {
			return nil, nil, err
		}
	}

	claimed := make(map[*Block]bool)
	attached = make([]*Block, len(stmts))
	for i, stmt := range stmts {
		attached[i] = &Block{StartLine: stmt.StartLine, EndLine: stmt.StartLine}
		// Later blocks win the (not expected) tie where two blocks end
		// on the same line.
		for _, b := range blocks {
			if b.EndLine == stmt.StartLine-1 {
				attached[i] = b
				claimed[b] = true
			}
		}
	}

	for _, b := range blocks {
		if !claimed[b] {
			orphans = append(orphans, b)
		}
	}
	return attached, orphans, nil
}
