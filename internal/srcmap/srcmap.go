// Package srcmap maps a file id plus (line, column) to source text for
// caret rendering, per spec.md §4.1/4.2 L0 "Source map" component.
package srcmap

import (
	"strings"

	"github.com/google/uuid"
)

type file struct {
	name  string
	text  string
	lines []string
}

// Map registers source files and resolves file ids back to names,
// full text, and individual lines. It is owned by one compilation and
// is not safe for concurrent registration (spec.md §5).
type Map struct {
	files []file
	ids   map[int]int // uuid-derived id -> index, for stable external ids
}

func New() *Map {
	return &Map{ids: make(map[int]int)}
}

// Add registers a source file and returns its file id. File ids are
// derived from a uuid so that ids allocated by independent Map
// instances in the same process (e.g. two driver invocations sharing a
// diagnostic sink) don't collide on small sequential integers; see
// SPEC_FULL.md §3.
func (m *Map) Add(name, text string) int {
	id := fold(uuid.New())
	for {
		if _, exists := m.ids[id]; !exists {
			break
		}
		id++
	}
	idx := len(m.files)
	m.files = append(m.files, file{
		name:  name,
		text:  text,
		lines: strings.Split(text, "\n"),
	})
	m.ids[id] = idx
	return id
}

func fold(u uuid.UUID) int {
	var v uint32
	for i := 0; i < 16; i++ {
		v ^= uint32(u[i]) << uint((i%4)*8)
	}
	// Keep ids positive and small enough to be a friendly diagnostic
	// field while still uuid-derived.
	return int(v & 0x7fffffff)
}

func (m *Map) lookup(id int) (file, bool) {
	idx, ok := m.ids[id]
	if !ok || idx < 0 || idx >= len(m.files) {
		return file{}, false
	}
	return m.files[idx], true
}

// Name returns the registered name for a file id, or "<unknown>".
func (m *Map) Name(id int) string {
	f, ok := m.lookup(id)
	if !ok {
		return "<unknown>"
	}
	return f.name
}

// Text returns the full text of a file.
func (m *Map) Text(id int) (string, bool) {
	f, ok := m.lookup(id)
	if !ok {
		return "", false
	}
	return f.text, true
}

// Line returns the 1-based line of a file, without its trailing
// newline.
func (m *Map) Line(id, line int) (string, bool) {
	f, ok := m.lookup(id)
	if !ok || line < 1 || line > len(f.lines) {
		return "", false
	}
	return f.lines[line-1], true
}
