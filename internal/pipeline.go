package internal

// Pipeline runs a fixed sequence of middleware handlers around a terminal
// handler. Each handler receives a delegate that invokes the next one; a
// handler that returns without calling it short-circuits the chain.
type Pipeline struct {
	handlers []MiddlewareHandler
	terminal HandlerFunc
}

// NewPipeline creates a pipeline. The handlers slice is copied.
func NewPipeline(handlers []MiddlewareHandler, terminal HandlerFunc) *Pipeline {
	hs := make([]MiddlewareHandler, len(handlers))
	copy(hs, handlers)
	return &Pipeline{handlers: hs, terminal: terminal}
}

// Len returns the number of middleware handlers.
func (p *Pipeline) Len() int {
	return len(p.handlers)
}

// Handle runs the pipeline for c.
func (p *Pipeline) Handle(c Context) error {
	return p.pending(0)(c)
}

// HandlerFunc exposes the pipeline as a handler.
func (p *Pipeline) HandlerFunc() HandlerFunc {
	return p.Handle
}

// pending returns the delegate that continues the chain at index i.
func (p *Pipeline) pending(i int) HandlerFunc {
	if i >= len(p.handlers) {
		if p.terminal == nil {
			return func(Context) error { return nil }
		}
		return p.terminal
	}
	d := delegate{pipeline: p, index: i}
	return d.next
}

type delegate struct {
	pipeline *Pipeline
	index    int
}

func (d delegate) next(c Context) error {
	return d.pipeline.handlers[d.index].Handle(c, d.pipeline.pending(d.index+1))
}
