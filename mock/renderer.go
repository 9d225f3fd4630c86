package mock

import (
	"github.com/fwojciec/docdex"
)

var _ docdex.FragmentRenderer = (*FragmentRenderer)(nil)

// FragmentRenderer is a mock implementation of docdex.FragmentRenderer.
type FragmentRenderer struct {
	RenderFn func(frag *docdex.Fragment) (string, error)
}

func (r *FragmentRenderer) Render(frag *docdex.Fragment) (string, error) {
	return r.RenderFn(frag)
}
