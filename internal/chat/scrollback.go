package chat

// Buffer is an append-only message log with a bounded, independently
// movable read viewport. The offset is the index of the first visible
// message and always stays within [0, max(0, len-rows)].
type Buffer struct {
	msgs   []Message
	offset int
	rows   int
}

// NewBuffer returns a buffer rendering rows visible lines.
func NewBuffer(rows int) *Buffer {
	if rows < 1 {
		rows = 1
	}
	return &Buffer{rows: rows}
}

func (b *Buffer) maxOffset() int {
	if n := len(b.msgs) - b.rows; n > 0 {
		return n
	}
	return 0
}

// AtBottom reports whether the viewport is following new messages.
func (b *Buffer) AtBottom() bool { return b.offset == b.maxOffset() }

// Append adds a message. The viewport auto-advances only when it was
// already at the bottom; a reader scrolled up keeps the same top-of-view
// message no matter how much new content streams in.
func (b *Buffer) Append(m Message) {
	follow := b.AtBottom()
	b.msgs = append(b.msgs, m)
	if follow {
		b.offset = b.maxOffset()
	}
}

// Scroll moves the viewport by delta messages (negative is up), saturating
// at the buffer bounds.
func (b *Buffer) Scroll(delta int) {
	b.offset += delta
	if b.offset < 0 {
		b.offset = 0
	}
	if max := b.maxOffset(); b.offset > max {
		b.offset = max
	}
}

// SetRows resizes the viewport, re-clamping the offset. A viewport that was
// following stays at the bottom after the resize.
func (b *Buffer) SetRows(rows int) {
	if rows < 1 {
		rows = 1
	}
	follow := b.AtBottom()
	b.rows = rows
	if follow || b.offset > b.maxOffset() {
		b.offset = b.maxOffset()
	}
}

// Clear empties the buffer and resets the viewport to the top.
func (b *Buffer) Clear() {
	b.msgs = nil
	b.offset = 0
}

// Window returns the currently visible slice of messages. Callers must not
// mutate it.
func (b *Buffer) Window() []Message {
	end := b.offset + b.rows
	if end > len(b.msgs) {
		end = len(b.msgs)
	}
	return b.msgs[b.offset:end]
}

// Len returns the total number of messages held.
func (b *Buffer) Len() int { return len(b.msgs) }

// Offset returns the current viewport offset.
func (b *Buffer) Offset() int { return b.offset }
