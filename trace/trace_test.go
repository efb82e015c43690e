package trace

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStepEventsReachWriter(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf)
	defer func() { logger = zerolog.Nop() }()

	Step(230, "PRINT")
	Jump(230, 1700)

	out := buf.String()
	assert.Contains(t, out, `"line":230`)
	assert.Contains(t, out, `"stmt":"PRINT"`)
	assert.Contains(t, out, `"to":1700`)
}
