//go:build darwin

package notify

import (
	"fmt"
	"strings"
)

// platformNotifier uses osascript's "display notification".
func platformNotifier() Notifier {
	return &commandNotifier{
		program: "osascript",
		args:    osascriptArgs,
		run: func(name string, args ...string) error {
			if err := runCommand(name, args...); err != nil {
				return fmt.Errorf("osascript failed: %w", err)
			}
			return nil
		},
	}
}

func osascriptArgs(n Notification) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(n.Body), escapeAppleScript(n.Title))
	if n.Sound {
		script += ` sound name "default"`
	}
	return []string{"-e", script}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
