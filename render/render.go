// Package render turns a step record into a display model. It only reads the
// record's board, message and move.
package render

import (
	"fmt"
	"strings"

	"gametrace/game"
	"gametrace/trace"
)

var glyphs = map[game.Cell]string{
	game.Max:   "X",
	game.Min:   "O",
	game.Empty: ".",
}

type View struct {
	Size      int
	Rows      [][]string
	Highlight int // Cell the record acted on, trace.NoMove if none
	Caption   string
	Phase     trace.Phase
}

// FromRecord builds the view of rec. It panics if the board is not square.
func FromRecord(rec trace.StepRecord) View {
	size := rec.Board.Size()
	v := View{
		Size:      size,
		Rows:      make([][]string, size),
		Highlight: trace.NoMove,
		Caption:   rec.Message,
	}
	if rec.Meta != nil {
		v.Phase = rec.Meta.Phase
		v.Highlight = rec.Meta.Move
	}
	for r := 0; r < size; r++ {
		v.Rows[r] = make([]string, size)
		for c := 0; c < size; c++ {
			v.Rows[r][c] = glyphs[rec.Board[r*size+c]]
		}
	}
	return v
}

// String draws the board with the highlighted cell in brackets, followed by
// the caption.
func (v View) String() string {
	var sb strings.Builder
	for r, row := range v.Rows {
		for c, glyph := range row {
			if r*v.Size+c == v.Highlight {
				sb.WriteString(fmt.Sprintf("[%s]", glyph))
			} else {
				sb.WriteString(fmt.Sprintf(" %s ", glyph))
			}
		}
		sb.WriteString("\n")
	}
	if v.Phase != "" {
		sb.WriteString(fmt.Sprintf("[%s] ", v.Phase))
	}
	sb.WriteString(v.Caption)
	return sb.String()
}
