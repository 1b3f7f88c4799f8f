package clipboard

import (
	"bytes"
	"os/exec"

	"github.com/pkg/errors"
)

// systemClipboardTool names the copy/paste commands for one candidate
// clipboard helper program.
type systemClipboardTool struct {
	copyCmd  []string
	pasteCmd []string
}

// toolBridge tries each tool in priority order, using the first one
// whose binary is found on PATH.
type toolBridge struct {
	tools []systemClipboardTool
}

// NewSystemBridge returns the platform clipboard bridge. On unsupported
// platforms it still returns a bridge, but every call fails with a
// "no clipboard tool found" error.
func NewSystemBridge() SystemBridge {
	return &toolBridge{tools: systemClipboardTools}
}

func (b *toolBridge) resolve() (systemClipboardTool, error) {
	for _, tool := range b.tools {
		if len(tool.copyCmd) == 0 {
			continue
		}
		if _, err := exec.LookPath(tool.copyCmd[0]); err == nil {
			return tool, nil
		}
	}
	return systemClipboardTool{}, errors.New("no clipboard tool found (install xclip or wl-copy)")
}

func (b *toolBridge) Write(text string) error {
	tool, err := b.resolve()
	if err != nil {
		return err
	}
	cmd := exec.Command(tool.copyCmd[0], tool.copyCmd[1:]...)
	cmd.Stdin = bytes.NewBufferString(text)
	return errors.Wrap(cmd.Run(), "running system clipboard copy command")
}

func (b *toolBridge) Read() (string, error) {
	tool, err := b.resolve()
	if err != nil {
		return "", err
	}
	cmd := exec.Command(tool.pasteCmd[0], tool.pasteCmd[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, "running system clipboard paste command")
	}
	return out.String(), nil
}
