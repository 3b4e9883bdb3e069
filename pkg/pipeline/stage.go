// Package pipeline holds the stage contract and the values passed between
// the crop and preview stages.
package pipeline

import "context"

// Stage is one step of a crop run: load, edit, layout, banner or composite.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc lets a plain function stand in for a Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}
