package core

import (
	"bytes"
	"fmt"
	"sort"
)

// ApplyEdits renders source with every edit applied.
//
// All edits refer to byte offsets of the original buffer. They are checked against it
// before anything is rewritten: a span outside the buffer fails with ErrEditOutOfRange,
// a span whose bytes differ from the ones seen at match time fails with ErrWriteRace, and
// two edits sharing a byte fail with ErrEditOverlap. Application then runs from the end of
// the file towards the start, which for edits collected in one forward pass is the
// reverse of collection order, so earlier offsets stay valid while later spans change length.
// Every byte outside the targeted spans is preserved verbatim.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	if err := ValidateEdits(source, edits); err != nil {
		return nil, err
	}

	// Stable sort keeps collection order for equal starts; combined with the overlap
	// check this only reorders edits that a rule emitted out of source order.
	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Span.Start < ordered[j].Span.Start
	})

	result := append([]byte(nil), source...)
	for i := len(ordered) - 1; i >= 0; i-- {
		edit := ordered[i]
		before := result[:edit.Span.Start]
		after := append([]byte(nil), result[edit.Span.End:]...)
		result = append(append(before, edit.Replacement...), after...)
	}

	return result, nil
}

// ValidateEdits checks bounds, original content and pairwise overlap of edits.
func ValidateEdits(source []byte, edits []Edit) error {
	for i, edit := range edits {
		if edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(source) {
			return fmt.Errorf("%w: %s [%d,%d) in %d bytes",
				ErrEditOutOfRange, edit.Rule, edit.Span.Start, edit.Span.End, len(source))
		}
		if edit.Original != nil && !bytes.Equal(source[edit.Span.Start:edit.Span.End], edit.Original) {
			return fmt.Errorf("%w: %s [%d,%d)", ErrWriteRace, edit.Rule, edit.Span.Start, edit.Span.End)
		}
		for _, prev := range edits[:i] {
			if prev.Span.Overlaps(edit.Span) {
				return fmt.Errorf("%w: %s [%d,%d) and %s [%d,%d)", ErrEditOverlap,
					prev.Rule, prev.Span.Start, prev.Span.End,
					edit.Rule, edit.Span.Start, edit.Span.End)
			}
		}
	}
	return nil
}
