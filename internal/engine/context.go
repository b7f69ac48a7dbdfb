package engine

import "context"

// wfCtxKey stashes a WorkflowContext inside a Go context passed to
// activities, so activity code can retrieve the originating workflow
// context when it needs to log or trace under the same scope.
type wfCtxKey struct{}

// WithWorkflowContext returns a child context carrying wf. Engine
// adapters use this when invoking activity handlers so downstream code
// can retrieve the workflow context if needed.
func WithWorkflowContext(ctx context.Context, wf WorkflowContext) context.Context {
	return context.WithValue(ctx, wfCtxKey{}, wf)
}

// WorkflowContextFromContext extracts a WorkflowContext from ctx if
// present, or nil otherwise.
func WorkflowContextFromContext(ctx context.Context) WorkflowContext {
	if v := ctx.Value(wfCtxKey{}); v != nil {
		if wf, ok := v.(WorkflowContext); ok {
			return wf
		}
	}
	return nil
}
