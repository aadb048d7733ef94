package ding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v5/ring"
)

func TestPolyReconciliation(t *testing.T) {
	var q uint64 = 12289

	params, err := NewParameters(q)
	require.NoError(t, err)

	ringQ, err := ring.NewRing(16, []uint64{q})
	require.NoError(t, err)

	x := ringQ.NewPoly()
	y := ringQ.NewPoly()

	// x spans both sides of zero, y = x + 2e with e in {-1, 0, 1}
	vals := []int64{0, 1, 2, 3, 3071, 3072, 3073, -1, -2, -3070, -3072, 6000, -6000, 6142, -6142, 17}
	errs := []int64{1, -1, 0, 1, -1, 1, 1, -1, 1, 0, -1, 1, -1, 1, 1, -1}
	for i := range vals {
		x.Coeffs[0][i] = uint64(Balance(vals[i], int64(q)) + int64(q)) % q
		y.Coeffs[0][i] = uint64(Balance(vals[i]+2*errs[i], int64(q)) + int64(q)) % q
	}

	hints := params.HintPoly(x)
	require.Len(t, hints, 16)
	for i, v := range vals {
		require.Equal(t, params.Hint(v), hints[i], "coefficient %d", i)
	}

	bx, err := params.ExtractPoly(x, hints)
	require.NoError(t, err)
	by, err := params.ExtractPoly(y, hints)
	require.NoError(t, err)
	require.Equal(t, bx, by)

	require.Equal(t, SharedKey(bx), SharedKey(by))
}

func TestExtractPolyHintLength(t *testing.T) {
	params, err := NewParameters(12289)
	require.NoError(t, err)

	ringQ, err := ring.NewRing(16, []uint64{12289})
	require.NoError(t, err)

	_, err = params.ExtractPoly(ringQ.NewPoly(), make([]uint8, 15))
	require.True(t, errors.Is(err, ErrHintLength))
}

func TestPackBits(t *testing.T) {
	require.Empty(t, PackBits(nil))
	require.Equal(t, []byte{0x01}, PackBits([]uint8{1}))
	require.Equal(t, []byte{0x05, 0x01}, PackBits([]uint8{1, 0, 1, 0, 0, 0, 0, 0, 1}))
	require.Equal(t, []byte{0x80}, PackBits([]uint8{0, 0, 0, 0, 0, 0, 0, 1}))

	// only the low bit matters
	require.Equal(t, PackBits([]uint8{1, 0, 1}), PackBits([]uint8{3, 2, 5}))
}

func TestSharedKey(t *testing.T) {
	a := SharedKey([]uint8{1, 0, 1, 1})
	b := SharedKey([]uint8{1, 0, 1, 1})
	c := SharedKey([]uint8{1, 0, 1, 0})

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
