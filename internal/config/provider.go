package config

import "sync"

// Provider loads Settings once and hands out the same instance for the life of the process.
// Construct one in main and pass it (or the Settings it returns) to the components that need it.
type Provider struct {
	opts []Option

	once     sync.Once
	settings *Settings
	err      error
}

// NewProvider returns a Provider that will call Load with opts on first access.
func NewProvider(opts ...Option) *Provider {
	return &Provider{opts: opts}
}

// Get returns the cached Settings, loading them on the first call.
// Concurrent first calls block until the single load finishes; a load error is cached too.
func (p *Provider) Get() (*Settings, error) {
	p.once.Do(func() {
		p.settings, p.err = Load(p.opts...)
	})
	return p.settings, p.err
}

// MustGet is like Get but panics if the settings cannot be loaded.
func (p *Provider) MustGet() *Settings {
	s, err := p.Get()
	if err != nil {
		panic(err)
	}
	return s
}
