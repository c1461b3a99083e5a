package main

import "sync"

// logBuffer is a fixed-size ring of the most recent log messages.
type logBuffer struct {
	mutex sync.Mutex
	data  [][]byte
	pos   int
	count int
}

func newLogBuffer(size int) *logBuffer {
	if size < 1 {
		size = 1
	}
	return &logBuffer{data: make([][]byte, size)}
}

func (b *logBuffer) WriteMessage(msg []byte) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.data[b.pos] = msg
	b.pos = (b.pos + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// ReadLastMessages returns up to n most recent messages, oldest first.
func (b *logBuffer) ReadLastMessages(n int) [][]byte {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if n > b.count {
		n = b.count
	}

	messages := make([][]byte, 0, n)
	for i := n; i > 0; i-- {
		idx := (b.pos - i + len(b.data)) % len(b.data)
		messages = append(messages, b.data[idx])
	}
	return messages
}
