package extref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetypes2/safetypes2/pkg/extref"
	"github.com/safetypes2/safetypes2/pkg/object"
)

func Test_New_StrongReference_RunsFinalizerOnDestroy(t *testing.T) {
	t.Parallel()

	var got any

	e := extref.New("payload", func(v any) { got = v })
	require.True(t, e.HasFinalizer())
	require.Equal(t, "payload", e.Value())

	object.Release(&e.Header)

	assert.Equal(t, "payload", got)
}

func Test_New_WeakReference_ForgetsValueWithoutFinalizer(t *testing.T) {
	t.Parallel()

	e := extref.New(42, nil)
	require.False(t, e.HasFinalizer())

	object.Release(&e.Header)

	assert.Nil(t, e.Value())
}

func Test_New_FinalizerRunsExactlyOnce(t *testing.T) {
	t.Parallel()

	calls := 0

	e := extref.New("x", func(any) { calls++ })

	object.Keep(&e.Header)
	object.Release(&e.Header)
	object.Leave(&e.Header)

	assert.Equal(t, 1, calls)
}
