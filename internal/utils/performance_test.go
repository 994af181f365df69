package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestOperationTimer_WarnsWhenSlow(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)

	stop := OperationTimer("sync_prices", time.Nanosecond, log)
	time.Sleep(2 * time.Millisecond)
	d := stop()

	assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	assert.Contains(t, buf.String(), "Slow operation detected")
	assert.Contains(t, buf.String(), "sync_prices")
}

func TestOperationTimer_ZeroThresholdNeverWarns(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.WarnLevel)

	OperationTimer("noop", 0, log)()

	assert.Empty(t, buf.String())
}
