package spackle

import (
	"github.com/A2-ai/spackle/pkg/config"
	"github.com/A2-ai/spackle/pkg/hooks"
	"github.com/A2-ai/spackle/pkg/logging"
	"github.com/A2-ai/spackle/pkg/metrics"
	"github.com/A2-ai/spackle/pkg/template"
	"github.com/rs/zerolog"
)

type options struct {
	settings  config.Settings
	engine    template.Engine
	runner    hooks.Runner
	events    chan<- hooks.Event
	metrics   *metrics.Collector
	logger    *zerolog.Logger
	overwrite bool

	values  map[string]string
	toggles map[string]string
}

// Option customizes a facade call
type Option func(*options)

func newOptions(opts []Option) (*options, error) {
	o := &options{
		settings:  config.DefaultSettings(),
		overwrite: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.engine == nil {
		e, err := template.New(o.settings.Engine)
		if err != nil {
			return nil, err
		}
		o.engine = e
	}
	if o.runner == nil {
		o.runner = hooks.NewExecRunner()
	}
	return o, nil
}

func (o *options) componentLogger(component, runID string) zerolog.Logger {
	logger := logging.GetLogger(component)
	if o.logger != nil {
		logger = o.logger.With().Str("component", component).Logger()
	}
	if runID != "" {
		logger = logging.WithRunID(logger, runID)
	}
	return logger
}

// WithSettings replaces the default engine settings
func WithSettings(s config.Settings) Option {
	return func(o *options) { o.settings = s }
}

// WithEngine overrides the engine named by the settings
func WithEngine(e template.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithRunner replaces the process runner used for hooks
func WithRunner(r hooks.Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithEvents streams hook progress to ch. The channel is not closed.
func WithEvents(ch chan<- hooks.Event) Option {
	return func(o *options) { o.events = ch }
}

// WithMetrics records fill statistics into c
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithLogger sets the base logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithOverwrite controls whether Fill may write into an existing output
// path. It defaults to true.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) { o.overwrite = overwrite }
}

// WithValues makes Check also validate slot values and hook toggles
func WithValues(values, toggles map[string]string) Option {
	return func(o *options) {
		o.values = values
		o.toggles = toggles
	}
}
