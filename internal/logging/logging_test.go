// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantDbg bool
		wantWrn bool
	}{
		{name: "default is info", level: "", wantDbg: false, wantWrn: true},
		{name: "debug", level: "debug", wantDbg: true, wantWrn: true},
		{name: "error hides warn", level: "error", wantDbg: false, wantWrn: false},
		{name: "unknown falls back to info", level: "loud", wantDbg: false, wantWrn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, Options{Level: tt.level})
			l.Debug("dbg-line")
			l.Warn("warn-line")
			out := buf.String()
			assert.Equal(t, tt.wantDbg, strings.Contains(out, "dbg-line"))
			assert.Equal(t, tt.wantWrn, strings.Contains(out, "warn-line"))
		})
	}
}

func TestNew_JSONKeyvals(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{JSON: true})
	l.Info("adapter finished", "adapter", "arxiv", "records", 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"adapter finished"`)
	assert.Contains(t, out, `"adapter":"arxiv"`)
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := Discard()
	assert.Same(t, l, OrDiscard(l))
}
