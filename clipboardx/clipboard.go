package clipboardx

import (
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// Write copies text to whatever clipboard backend is reachable: the
// cross-platform atotto/clipboard library first, then well-known CLI
// tools, then an OSC 52 terminal escape as a last resort for remote
// sessions with no local clipboard at all. It reports whether any
// backend succeeded; there is no in-process fallback to read back,
// since a one-shot render has nothing to paste into.
func Write(text string) bool {
	ok := false

	if err := clipboard.WriteAll(text); err == nil {
		ok = true
	}
	if writeWithCommands(text) {
		ok = true
	}
	if writeOSC52(text) {
		ok = true
	}

	return ok
}

func writeWithCommands(text string) bool {
	commands := []struct {
		name string
		args []string
	}{
		{name: "wl-copy", args: []string{}},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "pbcopy", args: []string{}},
		{name: "clip.exe", args: []string{}},
	}

	ok := false
	for _, cmdCfg := range commands {
		if _, err := exec.LookPath(cmdCfg.name); err != nil {
			continue
		}
		cmd := exec.Command(cmdCfg.name, cmdCfg.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			ok = true
		}
	}
	return ok
}

func writeOSC52(text string) bool {
	if text == "" {
		return false
	}
	if fi, err := os.Stdout.Stat(); err != nil || (fi.Mode()&os.ModeCharDevice) == 0 {
		return false
	}

	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(os.Stdout, "\x1b]52;c;%s\x07", encoded)
	return err == nil
}
