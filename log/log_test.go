// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContextResolvesLazily(t *testing.T) {
	pkgLogger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(NewHandler(&buf, LevelDebug, true))
	defer SetDefault(DiscardHandler())

	pkgLogger.With("node", "n1").Info("bound", "beneficiary", "0x01")

	out := buf.String()
	assert.Contains(t, out, `"pkg":"test"`)
	assert.Contains(t, out, `"node":"n1"`)
	assert.Contains(t, out, `"msg":"bound"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(NewHandler(&buf, LevelInfo, true))

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, LevelInfo, LevelFromVerbosity(3))
	assert.Equal(t, LevelDebug, LevelFromVerbosity(4))
}
