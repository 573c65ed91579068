package parts

import (
	"strconv"
	"strings"
)

// Buffer is an editable text with a cursor.
// The cursor is a rune position, 0 being before the first rune and the
// length of the content being past the last one.
type Buffer struct {
	content   []rune
	cursorPos int
}

// NewBuffer returns a buffer with the given content and the cursor at its
// end.
func NewBuffer(content string) *Buffer {
	b := &Buffer{}
	b.SetContent(content)
	return b
}

func (b *Buffer) Content() string { return string(b.content) }
func (b *Buffer) CursorPos() int  { return b.cursorPos }

// SetContent replaces the content and moves the cursor past its end.
func (b *Buffer) SetContent(content string) {
	b.content = []rune(content)
	b.cursorPos = len(b.content)
}

// AddRune inserts a printable rune or a newline at the cursor.
// It returns whether the content changed.
func (b *Buffer) AddRune(newRune rune) bool {
	if newRune != '\n' && !strconv.IsPrint(newRune) {
		return false
	}
	tmp := make([]rune, 0, len(b.content)+1)
	tmp = append(tmp, b.content[:b.cursorPos]...)
	tmp = append(tmp, newRune)
	tmp = append(tmp, b.content[b.cursorPos:]...)
	b.content = tmp
	b.cursorPos++
	return true
}

// BackspaceRune deletes the rune before the cursor.
func (b *Buffer) BackspaceRune() bool {
	if b.cursorPos == 0 {
		return false
	}
	b.content = append(b.content[:b.cursorPos-1], b.content[b.cursorPos:]...)
	b.cursorPos--
	return true
}

// DeleteRune deletes the rune under the cursor.
func (b *Buffer) DeleteRune() bool {
	if b.cursorPos >= len(b.content) {
		return false
	}
	b.content = append(b.content[:b.cursorPos], b.content[b.cursorPos+1:]...)
	return true
}

func (b *Buffer) MoveCursorLeft() {
	if b.cursorPos > 0 {
		b.cursorPos--
	}
}

func (b *Buffer) MoveCursorRight() {
	if b.cursorPos < len(b.content) {
		b.cursorPos++
	}
}

// MoveCursorToLineBeginning moves the cursor to the beginning of its line.
func (b *Buffer) MoveCursorToLineBeginning() {
	for b.cursorPos > 0 && b.content[b.cursorPos-1] != '\n' {
		b.cursorPos--
	}
}

// MoveCursorToLineEnd moves the cursor past the end of its line.
func (b *Buffer) MoveCursorToLineEnd() {
	for b.cursorPos < len(b.content) && b.content[b.cursorPos] != '\n' {
		b.cursorPos++
	}
}

// Lines returns the content split into lines, and the line and column of the
// cursor.
func (b *Buffer) Lines() (lines []string, cursorLine, cursorCol int) {
	lines = strings.Split(string(b.content), "\n")
	before := b.content[:b.cursorPos]
	for _, r := range before {
		if r == '\n' {
			cursorLine++
			cursorCol = 0
		} else {
			cursorCol++
		}
	}
	return lines, cursorLine, cursorCol
}
