package clipboard_test

import (
	"testing"

	"github.com/msheldon32/tabular-sub000/clipboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	written string
	toRead  string
	readErr error
}

func (f *fakeBridge) Write(text string) error {
	f.written = text
	return nil
}

func (f *fakeBridge) Read() (string, error) {
	return f.toRead, f.readErr
}

func TestYankWritesUnnamedAndYankRegister(t *testing.T) {
	r := clipboard.NewRegisters(nil)
	content := clipboard.Content{Data: [][]string{{"row1"}}, Anchor: clipboard.AnchorRowStart}
	r.Yank(content, true)

	got, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, content, got)

	r.SelectRegister('0')
	got, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestNamedRegisterSelectAndClear(t *testing.T) {
	r := clipboard.NewRegisters(nil)
	r.SelectRegister('A')
	r.Yank(clipboard.Content{Data: [][]string{{"x"}}}, true)

	r.SelectRegister('a')
	got, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "x", got.Data[0][0])

	// pending cleared after one Get; next Get falls back to unnamed.
	got2, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "x", got2.Data[0][0])
}

func TestBlackHoleDiscardsWrites(t *testing.T) {
	r := clipboard.NewRegisters(nil)
	r.SelectRegister('_')
	r.Yank(clipboard.Content{Data: [][]string{{"gone"}}}, true)

	got, _ := r.Get()
	assert.Nil(t, got.Data)
}

func TestDeleteDoesNotTouchYankRegister(t *testing.T) {
	r := clipboard.NewRegisters(nil)
	r.Yank(clipboard.Content{Data: [][]string{{"yanked"}}}, true)
	r.Delete(clipboard.Content{Data: [][]string{{"deleted"}}})

	r.SelectRegister('0')
	got, _ := r.Get()
	assert.Equal(t, "yanked", got.Data[0][0])
}

func TestSystemRegisterBridgesToExternalClipboard(t *testing.T) {
	fb := &fakeBridge{toRead: "from-system"}
	r := clipboard.NewRegisters(fb)
	r.SelectRegister('+')
	r.Yank(clipboard.Content{Data: [][]string{{"copy-me"}}}, true)
	assert.Contains(t, fb.written, "copy-me")

	r.SelectRegister('+')
	got, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-system", got.Data[0][0])
}

func TestSystemRegisterMissingToolErrors(t *testing.T) {
	r := clipboard.NewRegisters(nil)
	r.SelectRegister('+')
	_, err := r.Get()
	assert.Error(t, err)
}
