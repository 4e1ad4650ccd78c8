package boot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarwinGalicia/chaparrOS/defs"
)

func TestReadParam(t *testing.T) {
	pn := filepath.Join(t.TempDir(), "machine.yml")
	err := os.WriteFile(pn, []byte("diskblocks: 2048\ntrace: true\n"), 0644)
	require.NoError(t, err)

	param, err := ReadParam(pn)
	require.NoError(t, err)
	assert.Equal(t, 2048, param.DiskBlocks)
	assert.True(t, param.Trace)
	// anything the file leaves out keeps its default
	assert.Equal(t, DefaultParam().CacheSlots, param.CacheSlots)

	_, err = ReadParam(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)

	pn = filepath.Join(t.TempDir(), "garbage.yml")
	require.NoError(t, os.WriteFile(pn, []byte("diskblocks: [1,"), 0644))
	_, err = ReadParam(pn)
	assert.Error(t, err)
}

func mkmachine(t *testing.T, kbd string) (*Machine_t, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	m, err := Boot(DefaultParam(), out, strings.NewReader(kbd))
	require.NoError(t, err)
	return m, out
}

func TestRunHello(t *testing.T) {
	m, out := mkmachine(t, "")
	status, up := m.Run("hello")
	assert.True(t, up)
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "hello, world\n")
	assert.Contains(t, out.String(), "hello: exit(0)\n")
}

func TestRunEcho(t *testing.T) {
	m, out := mkmachine(t, "")
	status, up := m.Run("echo a b c")
	assert.True(t, up)
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "a b c\n")
}

func TestRunNested(t *testing.T) {
	m, out := mkmachine(t, "")
	status, up := m.Run("run echo deep")
	assert.True(t, up)
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "deep\n")
	assert.Contains(t, out.String(), "echo: exit(0)\n")
	assert.Contains(t, out.String(), "run: exit(0)\n")
}

func TestRunCat(t *testing.T) {
	m, out := mkmachine(t, "")
	require.Equal(t, defs.Err_t(0), m.Kern.Writefile("notes", []uint8("remember the milk\n")))
	status, up := m.Run("cat notes")
	assert.True(t, up)
	assert.Equal(t, 0, status)
	assert.Contains(t, out.String(), "remember the milk\n")

	status, _ = m.Run("cat nope")
	assert.Equal(t, 1, status)
	assert.Contains(t, out.String(), "cat: nope: no such file\n")
}

func TestRunUnknown(t *testing.T) {
	m, _ := mkmachine(t, "")
	status, up := m.Run("doesnotexist")
	assert.True(t, up)
	assert.Equal(t, -1, status)
}

func TestHaltStopsTheMachine(t *testing.T) {
	m, _ := mkmachine(t, "")
	assert.False(t, m.Halted())
	_, up := m.Run("halt")
	assert.False(t, up)
	assert.True(t, m.Halted())

	// a halted machine runs nothing
	status, up := m.Run("hello")
	assert.False(t, up)
	assert.Equal(t, -1, status)
}

// a second process reaching the power-off primitive must not crash the
// machine
func TestPowerOffTwice(t *testing.T) {
	m, _ := mkmachine(t, "")
	_, ok := m.Kern.Launch("halt")
	require.True(t, ok)
	require.Eventually(t, m.Halted, time.Second, time.Millisecond)

	_, ok = m.Kern.Launch("halt")
	require.True(t, ok)
	time.Sleep(50 * time.Millisecond)
	assert.True(t, m.Halted())
}
