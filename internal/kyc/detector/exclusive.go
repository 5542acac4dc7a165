package detector

import (
	"context"
	"sync"
)

// ExclusiveFace serializes calls into a non-reentrant face matcher.
func ExclusiveFace(next FaceMatcher) FaceMatcher {
	return &exclusiveFace{next: next}
}

type exclusiveFace struct {
	mu   sync.Mutex
	next FaceMatcher
}

func (e *exclusiveFace) Match(ctx context.Context, selfie, reference []byte) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return e.next.Match(ctx, selfie, reference)
}
