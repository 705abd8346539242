// Package filesync is a user dictionary provider over a JSON file that other
// processes may edit. External edits are picked up through fsnotify and
// broadcast to subscribers.
package filesync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sagerenn/spelld/internal/observability"
	"github.com/sagerenn/spelld/internal/userdict"
	"github.com/sagerenn/spelld/internal/wordlist"
)

const defaultDebounce = 100 * time.Millisecond

type Provider struct {
	userdict.Broadcaster

	path     string
	debounce time.Duration
	log      *observability.Logger

	mu   sync.Mutex
	last []byte

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

var _ userdict.Provider = (*Provider)(nil)

func New(path string, log *observability.Logger) *Provider {
	return &Provider{path: path, debounce: defaultDebounce, log: log.OrDiscard()}
}

func (p *Provider) Path() string {
	return p.path
}

// Load reads the file. A missing file is an empty dictionary.
func (p *Provider) Load(context.Context) (userdict.Dictionary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readLocked()
}

func (p *Provider) readLocked() (userdict.Dictionary, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return userdict.Dictionary{}, nil
	}
	if err != nil {
		return nil, err
	}
	var d userdict.Dictionary
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	p.last = data
	return d.Clone(), nil
}

func (p *Provider) Add(_ context.Context, lang, word string) error {
	return p.update(func(d userdict.Dictionary) {
		d[lang] = append(d[lang], wordlist.Normalize(word))
	})
}

func (p *Provider) Remove(_ context.Context, lang, word string) error {
	word = wordlist.Normalize(word)
	return p.update(func(d userdict.Dictionary) {
		words, ok := d[lang]
		if !ok {
			return
		}
		kept := words[:0]
		for _, w := range words {
			if w != word {
				kept = append(kept, w)
			}
		}
		d[lang] = kept
	})
}

func (p *Provider) update(fn func(userdict.Dictionary)) error {
	p.mu.Lock()
	d, err := p.readLocked()
	if err != nil {
		p.mu.Unlock()
		return err
	}
	fn(d)
	d = d.Clone()
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		p.mu.Unlock()
		return err
	}
	if err := userdict.WriteFileAtomic(p.path, data); err != nil {
		p.mu.Unlock()
		return err
	}
	p.last = data
	p.mu.Unlock()

	p.Publish(d)
	return nil
}

// Start watches the file's directory until Stop. Edits made by other
// processes are debounced, re-read and published.
func (p *Provider) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}
	p.watcher = w
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.eventLoop()
	return nil
}

func (p *Provider) Stop() error {
	if p.watcher == nil {
		return nil
	}
	close(p.done)
	err := p.watcher.Close()
	p.wg.Wait()
	p.watcher = nil
	return err
}

func (p *Provider) eventLoop() {
	defer p.wg.Done()
	name := filepath.Clean(p.path)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-p.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(p.debounce)
			} else {
				timer.Reset(p.debounce)
			}
			fire = timer.C
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn("user dictionary watch error", "path", p.path, "error", err)
		case <-fire:
			fire = nil
			p.reload()
		}
	}
}

func (p *Provider) reload() {
	p.mu.Lock()
	prev := p.last
	d, err := p.readLocked()
	changed := err == nil && !bytes.Equal(prev, p.last)
	p.mu.Unlock()
	if err != nil {
		p.log.Debug("user dictionary reload failed", "path", p.path, "error", err)
		return
	}
	if changed {
		p.Publish(d)
	}
}
