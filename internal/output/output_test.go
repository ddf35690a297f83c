package output

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggingTo(&buf, false)
	Debug("hidden")
	Warn("skipped icon", "title", "home")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "skipped icon")
	assert.Contains(t, buf.String(), "title=home")

	buf.Reset()
	Error("iconsprite failed", "err", "boom")
	assert.Contains(t, buf.String(), "iconsprite failed")
	assert.Contains(t, buf.String(), "err=boom")

	buf.Reset()
	SetupLoggingTo(&buf, true)
	Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestRunWithSpinnerWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	SetupLoggingTo(&buf, true)

	ran := false
	err := RunWithSpinner(context.Background(), "working", func() error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, ran)

	boom := errors.New("boom")
	err = RunWithSpinner(context.Background(), "working", func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary("Build complete", []Row{{"icons", "12"}, {"skipped", "3"}})
	assert.Contains(t, out, "Build complete")
	assert.Contains(t, out, "icons")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "skipped")
}

func TestFormatEntry(t *testing.T) {
	out := FormatEntry("home", "public", false, "0 0 24 24")
	assert.Contains(t, out, "home")
	assert.Contains(t, out, "public")
	assert.Contains(t, out, "0 0 24 24")
}
