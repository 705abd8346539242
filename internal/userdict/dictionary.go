package userdict

import (
	"context"
	"sort"
	"sync"

	"github.com/sagerenn/spelld/internal/wordlist"
)

// Dictionary maps a language tag to the words learned for it. It is also
// the JSON form of the user dictionary file.
type Dictionary map[string][]string

// Clone returns a deep copy with each word list sorted and de-duplicated.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for lang, words := range d {
		out[lang] = uniqueSorted(words)
	}
	return out
}

func uniqueSorted(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = wordlist.Normalize(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Provider owns the authoritative copy of a user dictionary shared between
// stores, possibly in other processes. Subscribe registers fn for
// dictionaries replaced from outside; the returned func detaches it.
type Provider interface {
	Load(ctx context.Context) (Dictionary, error)
	Add(ctx context.Context, lang, word string) error
	Remove(ctx context.Context, lang, word string) error
	Subscribe(fn func(Dictionary)) (unsubscribe func())
}

// Broadcaster fans a dictionary out to subscribers. Providers embed it.
type Broadcaster struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Dictionary)
}

func (b *Broadcaster) Subscribe(fn func(Dictionary)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(Dictionary))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every subscriber with its own copy of d.
func (b *Broadcaster) Publish(d Dictionary) {
	b.mu.Lock()
	subs := make([]func(Dictionary), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.Unlock()
	for _, fn := range subs {
		fn(d.Clone())
	}
}

// Subscribers reports how many listeners are attached.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// MemoryProvider keeps the dictionary in memory. Stores sharing one
// MemoryProvider see each other's changes.
type MemoryProvider struct {
	Broadcaster
	mu   sync.Mutex
	dict Dictionary
}

func NewMemoryProvider(initial Dictionary) *MemoryProvider {
	if initial == nil {
		initial = Dictionary{}
	}
	return &MemoryProvider{dict: initial.Clone()}
}

func (p *MemoryProvider) Load(context.Context) (Dictionary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dict.Clone(), nil
}

func (p *MemoryProvider) Add(_ context.Context, lang, word string) error {
	p.mu.Lock()
	p.dict[lang] = uniqueSorted(append(p.dict[lang], word))
	snap := p.dict.Clone()
	p.mu.Unlock()
	p.Publish(snap)
	return nil
}

func (p *MemoryProvider) Remove(_ context.Context, lang, word string) error {
	word = wordlist.Normalize(word)
	p.mu.Lock()
	words := p.dict[lang][:0:0]
	for _, w := range p.dict[lang] {
		if w != word {
			words = append(words, w)
		}
	}
	if _, ok := p.dict[lang]; ok {
		p.dict[lang] = words
	}
	snap := p.dict.Clone()
	p.mu.Unlock()
	p.Publish(snap)
	return nil
}
