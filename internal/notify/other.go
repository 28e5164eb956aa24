//go:build !darwin && !linux

package notify

func platformNotifier() Notifier {
	return nil
}
