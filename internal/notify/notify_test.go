package notify

import (
	"bytes"
	"testing"

	"github.com/daichongdev/gitplus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleRoutesBySeverity(t *testing.T) {
	var out, errw bytes.Buffer
	c := NewConsole(&out, &errw, true)

	c.Notify("Added to ignore file", "Added: build/", models.SeverityInfo)
	c.Notify("", "Git command failed: fatal: pathspec", models.SeverityError)

	assert.Equal(t, "Added to ignore file: Added: build/\n", out.String())
	assert.Equal(t, "Git command failed: fatal: pathspec\n", errw.String())
}

func TestConsoleSkipsDuplicateTitle(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, &out, true)

	c.Notify("same", "same", models.SeverityInfo)

	assert.Equal(t, "same\n", out.String())
}

func TestChannelDropsWhenFull(t *testing.T) {
	c := NewChannel(1)

	c.Notify("t1", "m1", models.SeverityInfo)
	c.Notify("t2", "m2", models.SeverityError)

	require.Len(t, c.C(), 1)
	n := <-c.C()
	assert.Equal(t, models.Notification{Title: "t1", Message: "m1", Severity: models.SeverityInfo}, n)
}

func TestEmptyRecorderReplaysNothing(t *testing.T) {
	var r Recorder
	var out bytes.Buffer
	assert.Zero(t, r.Replay(NewConsole(&out, &out, true)))
	assert.Empty(t, out.String())
}

func TestFuncAdapter(t *testing.T) {
	var got models.Notification
	var sink Sink = Func(func(title, message string, severity models.Severity) {
		got = models.Notification{Title: title, Message: message, Severity: severity}
	})

	sink.Notify("t", "m", models.SeverityError)

	assert.Equal(t, models.SeverityError, got.Severity)
	assert.Equal(t, "m", got.Message)
}

func TestRecorderReplaysInOrder(t *testing.T) {
	var r Recorder
	r.Notify("", "Removed from Git index: a.txt", models.SeverityInfo)
	r.Notify("Added to ignore file", "Added: a.txt", models.SeverityInfo)

	var out bytes.Buffer
	assert.Equal(t, 2, r.Replay(NewConsole(&out, &out, true)))
	r.Replay(NewConsole(&out, &out, true))

	assert.Equal(t, "Removed from Git index: a.txt\nAdded to ignore file: Added: a.txt\n"+
		"Removed from Git index: a.txt\nAdded to ignore file: Added: a.txt\n", out.String())
}
