package memory

import "github.com/sandevgo/climaqa/internal/core"

// History is the ordered turns of one session. It is a value:
// Append never mutates the receiver.
type History struct {
	turns []core.Turn
}

func NewHistory(turns ...core.Turn) History {
	return History{turns: append([]core.Turn(nil), turns...)}
}

func (h History) Append(turn core.Turn) History {
	next := make([]core.Turn, len(h.turns), len(h.turns)+1)
	copy(next, h.turns)
	return History{turns: append(next, turn)}
}

// Turns returns a copy in chronological order.
func (h History) Turns() []core.Turn {
	return append([]core.Turn(nil), h.turns...)
}

func (h History) Len() int {
	return len(h.turns)
}
