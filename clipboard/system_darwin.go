//go:build darwin

package clipboard

var systemClipboardTools = []systemClipboardTool{
	{
		copyCmd:  []string{"pbcopy"},
		pasteCmd: []string{"pbpaste"},
	},
}
