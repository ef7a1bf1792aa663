// Package buffer implements the line-oriented text store backing an
// editing session. A buffer always holds at least one line; deleting the
// final line leaves a single empty one behind. Columns are byte offsets
// into a line.
//
// Buffers are owned by the editor's main loop and are not safe for
// concurrent use.
package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Errors returned by buffer operations.
var (
	ErrLineOutOfRange   = errors.New("line index out of range")
	ErrColumnOutOfRange = errors.New("column index out of range")
	ErrNoFilePath       = errors.New("no file path set")
)

// Buffer stores document text as an ordered sequence of lines.
type Buffer struct {
	lines []string
	path  string
	dirty bool
}

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithPath associates a file path with the buffer without reading it.
func WithPath(path string) Option {
	return func(b *Buffer) { b.path = path }
}

// WithLines seeds the buffer content. An empty slice still produces a
// single empty line.
func WithLines(lines []string) Option {
	return func(b *Buffer) {
		b.lines = append(b.lines[:0], lines...)
		if len(b.lines) == 0 {
			b.lines = append(b.lines, "")
		}
	}
}

// New creates an empty buffer holding a single empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{lines: []string{""}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Read Operations

// LineCount reports the number of lines. Always at least 1.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of the line at index. Out-of-range indices yield
// the empty string.
func (b *Buffer) Line(index int) string {
	if index < 0 || index >= len(b.lines) {
		return ""
	}
	return b.lines[index]
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Path returns the file path associated with the buffer, if any.
func (b *Buffer) Path() string {
	return b.path
}

// SetPath associates a file path without touching content or dirtiness.
func (b *Buffer) SetPath(path string) {
	b.path = path
}

// Dirty reports whether the buffer has unsaved modifications.
func (b *Buffer) Dirty() bool {
	return b.dirty
}

// MarkDirty flags the buffer as modified.
func (b *Buffer) MarkDirty() {
	b.dirty = true
}

// Write Operations

// SetLine replaces the text of the line at index.
func (b *Buffer) SetLine(index int, text string) error {
	if index < 0 || index >= len(b.lines) {
		return fmt.Errorf("set line %d: %w", index, ErrLineOutOfRange)
	}
	b.lines[index] = text
	b.dirty = true
	return nil
}

// InsertLine inserts text as a new line at index. Index may equal
// LineCount to append.
func (b *Buffer) InsertLine(index int, text string) error {
	if index < 0 || index > len(b.lines) {
		return fmt.Errorf("insert line %d: %w", index, ErrLineOutOfRange)
	}
	b.lines = append(b.lines, "")
	copy(b.lines[index+1:], b.lines[index:])
	b.lines[index] = text
	b.dirty = true
	return nil
}

// DeleteLine removes the line at index. Removing the last remaining line
// leaves a single empty line so the buffer never becomes empty.
func (b *Buffer) DeleteLine(index int) error {
	if index < 0 || index >= len(b.lines) {
		return fmt.Errorf("delete line %d: %w", index, ErrLineOutOfRange)
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
	if len(b.lines) == 0 {
		b.lines = append(b.lines, "")
	}
	b.dirty = true
	return nil
}

// InsertText inserts text into the line at the given byte column. Column
// may equal the line length to append.
func (b *Buffer) InsertText(line, column int, text string) error {
	if line < 0 || line >= len(b.lines) {
		return fmt.Errorf("insert at line %d: %w", line, ErrLineOutOfRange)
	}
	current := b.lines[line]
	if column < 0 || column > len(current) {
		return fmt.Errorf("insert at column %d: %w", column, ErrColumnOutOfRange)
	}
	b.lines[line] = current[:column] + text + current[column:]
	b.dirty = true
	return nil
}

// DeleteChar removes the byte immediately before column, the backspace
// contract. Column must satisfy 0 < column <= len(line).
func (b *Buffer) DeleteChar(line, column int) error {
	if line < 0 || line >= len(b.lines) {
		return fmt.Errorf("delete at line %d: %w", line, ErrLineOutOfRange)
	}
	current := b.lines[line]
	if column <= 0 || column > len(current) {
		return fmt.Errorf("delete at column %d: %w", column, ErrColumnOutOfRange)
	}
	b.lines[line] = current[:column-1] + current[column:]
	b.dirty = true
	return nil
}

// File I/O

// Load reads the file at path into the buffer, replacing its content. A
// missing file is not an error: the buffer resets to a single empty line
// and keeps the path for a later save. Line endings are split on '\n'
// with a single trailing newline tolerated, matching line-by-line reads.
func (b *Buffer) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.lines = []string{""}
			b.path = path
			b.dirty = false
			return fmt.Errorf("load %s: %w", path, err)
		}
		return fmt.Errorf("load %s: %w", path, err)
	}

	text := strings.TrimSuffix(string(data), "\n")
	b.lines = strings.Split(text, "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.path = path
	b.dirty = false
	return nil
}

// Save writes the buffer to path, or to the stored path when path is
// empty. Lines are joined with '\n' and no trailing newline is added.
// On success the path is remembered and the dirty flag cleared.
func (b *Buffer) Save(path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return ErrNoFilePath
	}
	content := strings.Join(b.lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	b.path = path
	b.dirty = false
	return nil
}
