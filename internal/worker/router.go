package worker

import "context"

// Operation is one upload strategy. Expected delivery errors are reported as
// Failure; an Operation never returns Fault itself.
type Operation func(ctx context.Context) Outcome

// Router maps a category selector to its Operation.
type Router struct {
	routes map[string]Operation
}

// NewRouter returns a Router for the three known categories.
func NewRouter(event, exception, performanceMetric Operation) *Router {
	return &Router{routes: map[string]Operation{
		CategoryEvent:             event,
		CategoryException:         exception,
		CategoryPerformanceMetric: performanceMetric,
	}}
}

// Route returns the Operation for inv. Matching is exact; an absent or
// unknown selector reports false.
func (r *Router) Route(inv Invocation) (Operation, bool) {
	op, ok := r.routes[inv.Category()]
	if !ok || op == nil {
		return nil, false
	}
	return op, true
}
