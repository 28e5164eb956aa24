// Package launch hands drawer actions to the desktop: composing a mail,
// opening a URL in the browser and sharing text through the clipboard.
package launch

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Launcher performs drawer actions using the platform opener.
type Launcher struct {
	email string
	goos  string
	run   func(name string, args ...string) error
	copy  func(text string) error
}

// New returns a launcher that addresses mail to email.
func New(email string) *Launcher {
	return &Launcher{
		email: email,
		goos:  runtime.GOOS,
		run: func(name string, args ...string) error {
			_, err := startDetached(name, args...)
			return err
		},
		copy: clipboard.WriteAll,
	}
}

// OpenMail opens the default mail composer with the given subject.
func (l *Launcher) OpenMail(subject string) error {
	if l.email == "" {
		return fmt.Errorf("open mail: no feedback address configured")
	}
	u := url.URL{
		Scheme:   "mailto",
		Opaque:   l.email,
		RawQuery: "subject=" + strings.ReplaceAll(url.QueryEscape(subject), "+", "%20"),
	}
	return l.OpenURL(u.String())
}

// OpenURL opens target with the platform's default handler.
func (l *Launcher) OpenURL(target string) error {
	if target == "" {
		return fmt.Errorf("open url: empty target")
	}
	name, args := opener(l.goos, target)
	if err := l.run(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

// Share copies text to the system clipboard so it can be pasted anywhere.
func (l *Launcher) Share(text string) error {
	if clipboard.Unsupported && l.goos == runtime.GOOS {
		return fmt.Errorf("share: clipboard not available")
	}
	if err := l.copy(text); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return nil
}

// startDetached starts name without blocking on it. The process is reaped in
// the background; the returned channel yields its exit error once it has.
func startDetached(name string, args ...string) (<-chan error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}

func opener(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}
