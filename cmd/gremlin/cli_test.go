package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawStringLen(t *testing.T) {
	for i, tc := range []struct {
		input    string
		expected int
	}{
		{input: "", expected: 0},
		{input: "a", expected: 1},
		{input: "a\033", expected: 2},
		{input: "a\033[", expected: 3},
		{input: "a\033[2", expected: 4},
		{input: "a\033[2A", expected: 1},
		{input: "a\033[2Aa", expected: 2},
	} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {

			l := rawStringLen(tc.input)
			assert.Equal(t, tc.expected, l)
		})

	}

}

func TestLogBuffer(t *testing.T) {
	buf := newLogBuffer(3)

	assert.Equal(t, 0, len(buf.ReadLastMessages(10)))

	buf.WriteMessage([]byte("one"))
	buf.WriteMessage([]byte("two"))

	msgs := buf.ReadLastMessages(10)
	assert.Equal(t, 2, len(msgs))
	assert.Equal(t, "one", string(msgs[0]))
	assert.Equal(t, "two", string(msgs[1]))

	buf.WriteMessage([]byte("three"))
	buf.WriteMessage([]byte("four")) // overwrites "one"

	msgs = buf.ReadLastMessages(10)
	assert.Equal(t, 3, len(msgs))
	assert.Equal(t, "two", string(msgs[0]))
	assert.Equal(t, "four", string(msgs[2]))

	msgs = buf.ReadLastMessages(1)
	assert.Equal(t, 1, len(msgs))
	assert.Equal(t, "four", string(msgs[0]))
}
