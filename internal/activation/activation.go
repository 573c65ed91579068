// Package activation keeps the order in which the parts of a page were
// activated.
package activation

import (
	"github.com/ja-he/workbench/internal/part"
)

// List is the activation history of a page, most recently activated last.
// Each reference appears at most once.
type List struct {
	refs []*part.Reference
}

// New returns an empty list.
func New() *List { return &List{} }

// BringToTop moves ref to the end of the list, adding it if absent.
func (l *List) BringToTop(ref *part.Reference) {
	l.Remove(ref)
	l.refs = append(l.refs, ref)
}

// Remove removes ref from the list and reports whether it was contained.
func (l *List) Remove(ref *part.Reference) bool {
	for i, r := range l.refs {
		if r == ref {
			l.refs = append(l.refs[:i], l.refs[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether ref was activated and not removed since.
func (l *List) Contains(ref *part.Reference) bool { return l.indexOf(ref) >= 0 }

// Len returns the number of references in the list.
func (l *List) Len() int { return len(l.refs) }

// ActiveReference returns the most recently activated reference, considering
// only editors if editorsOnly is set, or nil if there is none.
func (l *List) ActiveReference(editorsOnly bool) *part.Reference {
	for i := len(l.refs) - 1; i >= 0; i-- {
		if !editorsOnly || l.refs[i].Kind() == part.KindEditor {
			return l.refs[i]
		}
	}
	return nil
}

// TopView returns the most recently activated view, or nil.
func (l *List) TopView() *part.Reference {
	for i := len(l.refs) - 1; i >= 0; i-- {
		if l.refs[i].Kind() == part.KindView {
			return l.refs[i]
		}
	}
	return nil
}

// Parts returns the references in activation order, least recent first.
func (l *List) Parts() []*part.Reference {
	result := make([]*part.Reference, len(l.refs))
	copy(result, l.refs)
	return result
}

// Editors returns the editors in activation order, least recent first.
func (l *List) Editors() []*part.Reference {
	result := []*part.Reference{}
	for _, r := range l.refs {
		if r.Kind() == part.KindEditor {
			result = append(result, r)
		}
	}
	return result
}

func (l *List) indexOf(ref *part.Reference) int {
	for i, r := range l.refs {
		if r == ref {
			return i
		}
	}
	return -1
}
