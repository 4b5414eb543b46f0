package inputs

// CursorFunc receives a pointer position in window coordinates together with
// the window size those coordinates are relative to.
type CursorFunc func(x, y float64, width, height int)

// KeyFunc receives a single printable key press, lower-cased.
type KeyFunc func(key rune)

// EventSource is anything that can deliver pointer and key events.
// Each registration returns the function that removes it.
type EventSource interface {
	OnCursorMove(f CursorFunc) (remove func())
	OnKey(f KeyFunc) (remove func())
}

// Listeners is a minimal EventSource that fans events out to registered
// callbacks. Window contexts hold one and call Cursor/Key from their native
// callbacks.
type Listeners struct {
	nextID int
	cursor map[int]CursorFunc
	keys   map[int]KeyFunc
}

func (l *Listeners) OnCursorMove(f CursorFunc) func() {
	if l.cursor == nil {
		l.cursor = make(map[int]CursorFunc)
	}
	id := l.nextID
	l.nextID++
	l.cursor[id] = f
	return func() { delete(l.cursor, id) }
}

func (l *Listeners) OnKey(f KeyFunc) func() {
	if l.keys == nil {
		l.keys = make(map[int]KeyFunc)
	}
	id := l.nextID
	l.nextID++
	l.keys[id] = f
	return func() { delete(l.keys, id) }
}

// Cursor dispatches a pointer move to every registered cursor listener.
func (l *Listeners) Cursor(x, y float64, width, height int) {
	for _, f := range l.cursor {
		f(x, y, width, height)
	}
}

// Key dispatches a key press to every registered key listener.
func (l *Listeners) Key(key rune) {
	for _, f := range l.keys {
		f(key)
	}
}

// Count returns the number of live registrations.
func (l *Listeners) Count() int {
	return len(l.cursor) + len(l.keys)
}
