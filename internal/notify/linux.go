//go:build linux

package notify

import "fmt"

// platformNotifier uses notify-send. Whether a sound plays depends on the
// notification daemon; the urgency hint is the closest portable knob.
func platformNotifier() Notifier {
	return &commandNotifier{
		program: "notify-send",
		args:    notifySendArgs,
		run: func(name string, args ...string) error {
			if err := runCommand(name, args...); err != nil {
				return fmt.Errorf("notify-send failed: %w", err)
			}
			return nil
		},
	}
}

func notifySendArgs(n Notification) []string {
	args := []string{"--app-name=snaptick"}
	if n.Sound {
		args = append(args, "--urgency=normal")
	}
	return append(args, n.Title, n.Body)
}
