// Package notify delivers task reminders: a Scheduler arms one timer per task
// uuid and hands due reminders to a platform Notifier.
package notify

import "os/exec"

// Notification is a single desktop notification.
type Notification struct {
	Title string
	Body  string
	Sound bool
}

// Notifier shows notifications on the desktop.
type Notifier interface {
	Notify(n Notification) error
	Supported() bool
}

// Discard drops every notification. It is used when notifications are
// disabled or the platform has no notification tool.
type Discard struct{}

func (Discard) Notify(Notification) error { return nil }
func (Discard) Supported() bool           { return false }

// New returns the platform notifier, or Discard if none is available.
func New() Notifier {
	n := platformNotifier()
	if n == nil || !n.Supported() {
		return Discard{}
	}
	return n
}

// commandNotifier runs an external program per notification.
type commandNotifier struct {
	program string
	args    func(Notification) []string
	run     func(name string, args ...string) error
}

func (c *commandNotifier) Supported() bool {
	_, err := exec.LookPath(c.program)
	return err == nil
}

func (c *commandNotifier) Notify(n Notification) error {
	return c.run(c.program, c.args(n)...)
}

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}
