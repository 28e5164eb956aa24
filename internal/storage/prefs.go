package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"snaptick/internal/fsutil"
)

// Preference keys.
const (
	KeyTheme      = "theme"
	KeySortTask   = "sort_task"
	KeyStreak     = "streak"
	KeyLastOpened = "last_opened"
)

// PrefsFile is the preference file name inside the data directory.
const PrefsFile = "prefs.json"

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

type prefsDoc struct {
	Values map[string]string `json:"values"`
}

// Preferences is a durable key to scalar store with change notification.
// Values are kept in memory and written through to a JSON file on every save.
type Preferences struct {
	mu      sync.Mutex
	path    string
	values  map[string]string
	changes *broker
}

// OpenPreferences loads (or creates) the preference file in dataDir. A
// corrupt file is recovered from its .bak copy or reset to empty; the broken
// file is kept next to it.
func OpenPreferences(dataDir string) (*Preferences, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	p := &Preferences{
		path:    filepath.Join(dataDir, PrefsFile),
		values:  map[string]string{},
		changes: newBroker(),
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Preferences) load() error {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return p.write()
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", PrefsFile, err)
	}

	var doc prefsDoc
	if len(bytes.TrimSpace(data)) > 0 {
		if err = json.Unmarshal(data, &doc); err == nil {
			if doc.Values != nil {
				p.values = doc.Values
			}
			return nil
		}
	} else {
		err = fmt.Errorf("%s is empty", PrefsFile)
	}
	return p.recover(err)
}

func (p *Preferences) recover(cause error) error {
	corruptPath := fmt.Sprintf("%s.corrupt.%s", p.path, time.Now().Format("20060102-150405"))

	if bak, err := os.ReadFile(p.path + ".bak"); err == nil {
		var doc prefsDoc
		if err := json.Unmarshal(bak, &doc); err == nil && doc.Values != nil {
			_ = os.Rename(p.path, corruptPath)
			p.values = doc.Values
			slog.Warn("preferences recovered from backup", "cause", cause)
			return p.write()
		}
	}

	_ = os.Rename(p.path, corruptPath)
	slog.Warn("preferences reset to defaults", "cause", cause, "moved_to", corruptPath)
	return p.write()
}

// write persists the current values. Callers hold p.mu (or own p exclusively).
func (p *Preferences) write() error {
	if err := fsutil.WriteJSONAtomic(p.path, prefsDoc{Values: p.values}, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", PrefsFile, err)
	}
	return nil
}

func (p *Preferences) save(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	old, existed := p.values[key]
	p.values[key] = value
	if err := p.write(); err != nil {
		if existed {
			p.values[key] = old
		} else {
			delete(p.values, key)
		}
		p.mu.Unlock()
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	p.mu.Unlock()

	p.changes.publish()
	return nil
}

func (p *Preferences) get(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.values[key]
	return v, ok
}

// SaveInt stores an integer value.
func (p *Preferences) SaveInt(ctx context.Context, key string, value int) error {
	return p.save(ctx, key, strconv.Itoa(value))
}

// SaveString stores a string value.
func (p *Preferences) SaveString(ctx context.Context, key, value string) error {
	return p.save(ctx, key, value)
}

// LoadInt returns the stored integer or def when the key is absent.
func (p *Preferences) LoadInt(ctx context.Context, key string, def int) (int, error) {
	if err := ctx.Err(); err != nil {
		return def, err
	}
	v, ok := p.get(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("preference %s is not an integer: %q", key, v)
	}
	return n, nil
}

// LoadString returns the stored string or "" when the key is absent.
func (p *Preferences) LoadString(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, _ := p.get(key)
	return v, nil
}

// WatchInt streams the value of key, starting with the current one and
// then every distinct change. Unparsable values read as def.
func (p *Preferences) WatchInt(ctx context.Context, key string, def int) <-chan int {
	return watch(ctx, p, func() int {
		n, err := p.LoadInt(context.Background(), key, def)
		if err != nil {
			return def
		}
		return n
	})
}

// WatchString streams the value of key, starting with the current one and
// then every distinct change.
func (p *Preferences) WatchString(ctx context.Context, key string) <-chan string {
	return watch(ctx, p, func() string {
		v, _ := p.get(key)
		return v
	})
}

func watch[T comparable](ctx context.Context, p *Preferences, read func() T) <-chan T {
	out := make(chan T)
	wake := p.changes.subscribe()

	go func() {
		defer close(out)
		defer p.changes.unsubscribe(wake)

		var last T
		first := true
		for {
			v := read()
			if first || v != last {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
				last, first = v, false
			}

			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
