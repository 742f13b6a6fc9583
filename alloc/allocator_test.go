package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	tests := []struct {
		kind string
		heap bool
	}{
		{"", true},
		{"heap", true},
		{"mmap", !mmapSupported},
		{"bogus", true},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a := newDefault(tt.kind)
			_, isHeap := a.(*Heap)
			require.Equal(t, tt.heap, isHeap)
		})
	}
}

func TestDefault_IsStable(t *testing.T) {
	require.NotNil(t, Default())
	require.True(t, Default().Equal(Default()))
}

func TestValidate(t *testing.T) {
	require.NoError(t, validate(0, 1))
	require.NoError(t, validate(100, 64))
	require.ErrorIs(t, validate(-1, 8), ErrBadSize)
	require.ErrorIs(t, validate(8, 0), ErrBadAlignment)
	require.ErrorIs(t, validate(8, 12), ErrBadAlignment)
}

func TestRoundSize(t *testing.T) {
	require.Equal(t, Granule, roundSize(0))
	require.Equal(t, Granule, roundSize(1))
	require.Equal(t, Granule, roundSize(Granule))
	require.Equal(t, 2*Granule, roundSize(Granule+1))
}
