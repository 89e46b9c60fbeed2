// Package actions provides the dispatch registry for operations
// embedded in notifications. Action URLs use the form
// appscheme://<name>?<k>=<v> with percent-encoded keys and values.
package actions

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/AzerQ/sed-notifications/internal/logging"
)

// Scheme is the recognized action URL scheme.
const Scheme = "appscheme"

// Handler executes a named action with its decoded parameters.
type Handler func(params map[string]string) error

// ResultKind classifies an execution outcome.
type ResultKind string

const (
	// ResultSuccess means the handler ran to completion.
	ResultSuccess ResultKind = "success"
	// ResultNotFound means no handler is registered for the action name.
	ResultNotFound ResultKind = "not_found"
	// ResultError covers malformed URLs and handler failures.
	ResultError ResultKind = "error"
)

// Result is the outcome surfaced through the notify side-channel.
// Execution never returns errors to the caller directly.
type Result struct {
	Kind    ResultKind
	Action  string
	Message string
}

// Success reports whether the execution succeeded.
func (r Result) Success() bool { return r.Kind == ResultSuccess }

// Registry maps action names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registry{
		handlers: make(map[string]Handler),
		logger:   logger.With("component", "actions"),
	}
}

// Register binds a handler to an action name. A later registration
// for the same name replaces the earlier one.
func (r *Registry) Register(name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// Registered reports whether a handler exists for the action name.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Execute parses rawURL, runs the matching handler and reports the
// outcome through notify. When markAsRead is set and the handler
// succeeds, onComplete is invoked with notificationID so the caller
// can flip read state. Handler panics are contained and reported as
// execution errors.
func (r *Registry) Execute(rawURL string, notificationID int64, markAsRead bool, onComplete func(int64), notify func(Result)) {
	if notify == nil {
		notify = func(Result) {}
	}

	name, params, err := parseActionURL(rawURL)
	if err != nil {
		r.logger.Error("action URL rejected", "url", rawURL, "error", err)
		notify(Result{Kind: ResultError, Message: fmt.Sprintf("action execution failed: %v", err)})
		return
	}

	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		r.logger.Warn("action not registered", "action", name)
		notify(Result{Kind: ResultNotFound, Action: name, Message: fmt.Sprintf("action %q is not registered", name)})
		return
	}

	if err := r.runHandler(name, handler, params); err != nil {
		r.logger.Error("action handler failed", "action", name, "error", err)
		notify(Result{Kind: ResultError, Action: name, Message: fmt.Sprintf("action execution failed: %v", err)})
		return
	}

	r.logger.Debug("action executed", "action", name, "notification", notificationID)
	notify(Result{Kind: ResultSuccess, Action: name, Message: fmt.Sprintf("action %q executed", name)})
	if markAsRead && onComplete != nil {
		onComplete(notificationID)
	}
}

// runHandler invokes the handler, converting panics into errors.
func (r *Registry) runHandler(name string, handler Handler, params map[string]string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler for %q panicked: %v", name, rec)
		}
	}()
	return handler(params)
}

// parseActionURL extracts the action name and decoded parameters
// from an appscheme:// URL. A value-less parameter decodes to the
// empty string.
func parseActionURL(rawURL string) (string, map[string]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("malformed action URL: %w", err)
	}
	if u.Scheme != Scheme {
		return "", nil, fmt.Errorf("unrecognized action URL scheme: %q", u.Scheme)
	}
	if u.Host == "" {
		return "", nil, fmt.Errorf("action URL has no action name")
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("malformed action parameters: %w", err)
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		} else {
			params[k] = ""
		}
	}
	return u.Host, params, nil
}
