// Package alertview fetches Prometheus rule groups from the plugin backend
// and renders them.
//
// A View is a state container: Mount schedules the single fetch, Dispose
// invalidates it, and State returns the current FetchState. Rendering is a
// pure function of that state, see Present and the Render* functions.
package alertview

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultPluginID is the plugin whose resources are queried when no other
// ID is configured.
const DefaultPluginID = "required-grafanaprometheusmanager-app"

// FallbackMessage is shown when a failure carries no description.
const FallbackMessage = "failed to fetch alert rules"

// Backend performs an authenticated GET of path and decodes the JSON body
// into out.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
}

// ResourcePath returns the rules resource path for a plugin.
func ResourcePath(pluginID string) string {
	return "/api/plugins/" + pluginID + "/resources/prometheus/rules"
}

// Option configures a View.
type Option func(*View)

// WithPluginID selects the plugin whose resource endpoint is queried.
func WithPluginID(id string) Option {
	return func(v *View) {
		v.path = ResourcePath(id)
	}
}

// WithLogger replaces the default logger.
func WithLogger(entry *logrus.Entry) Option {
	return func(v *View) {
		v.log = entry
	}
}

// View loads rule groups once per mount.
type View struct {
	backend Backend
	path    string
	log     *logrus.Entry

	mu       sync.Mutex
	state    FetchState
	mounted  bool
	disposed bool
	done     chan struct{}
	doneOnce sync.Once
}

// New returns an unmounted View reading from backend.
func New(backend Backend, opts ...Option) *View {
	v := &View{
		backend: backend,
		path:    ResourcePath(DefaultPluginID),
		log:     logrus.WithField("component", "alertview"),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mount moves the view to Loading and starts the fetch in the background.
// Only the first call on a View has any effect.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mounted || v.disposed {
		return
	}
	v.mounted = true
	v.state = loadingState()

	go v.load(ctx)
}

// Dispose detaches the view. A fetch still in flight is left to finish, but
// its result is discarded.
func (v *View) Dispose() {
	v.mu.Lock()
	v.disposed = true
	v.mu.Unlock()
	v.closeDone()
}

// Done is closed once the view reaches a terminal state or is disposed.
func (v *View) Done() <-chan struct{} {
	return v.done
}

// State returns a snapshot of the current state.
func (v *View) State() FetchState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) load(ctx context.Context) {
	var body ruleListBody
	next := func() FetchState {
		if err := v.backend.Get(ctx, v.path, &body); err != nil {
			return errorState(failureMessage(err))
		}
		groups, err := flatten(&body)
		if err != nil {
			return errorState(failureMessage(err))
		}
		return loadedState(groups)
	}()

	v.complete(next)
}

// complete applies the fetch result unless the view was disposed meanwhile.
func (v *View) complete(next FetchState) {
	v.mu.Lock()
	if v.disposed {
		v.mu.Unlock()
		v.log.WithField("phase", next.Phase).Debug("view disposed before fetch completed, dropping result")
		return
	}
	v.state = next
	v.mu.Unlock()

	if next.Phase == Failed {
		v.log.WithField("path", v.path).Warnf("loading alert rules failed: %s", next.Message)
	} else {
		v.log.WithField("groups", len(next.Groups)).Debug("alert rules loaded")
	}
	v.closeDone()
}

func (v *View) closeDone() {
	v.doneOnce.Do(func() { close(v.done) })
}

func failureMessage(err error) string {
	if err == nil {
		return FallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
