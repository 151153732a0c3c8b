package terminal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramRendererFallback(t *testing.T) {
	var buf bytes.Buffer
	r := NewProgramRenderer(&buf)

	r.Write("one")
	r.Write("two")
	r.Render("ignored without a program")
	assert.Equal(t, "one\ntwo\n", buf.String())
	assert.Nil(t, r.Keypresses())

	assert.Equal(t, 0, r.CursorPosition())
	r.setCursor(7)
	assert.Equal(t, 7, r.CursorPosition())
}
