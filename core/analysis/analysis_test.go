package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KAIST-CryptLab/dingrec/core/ding"
)

func newTestAnalyzer(t testing.TB, seed string) *Analyzer {
	params, err := ding.NewParameters(12289)
	require.NoError(t, err)

	prng, err := NewPRNG(seed)
	require.NoError(t, err)

	a, err := NewAnalyzer(params, 10, 3.2, prng)
	require.NoError(t, err)
	return a
}

func TestScalarAgreement(t *testing.T) {
	params, err := ding.NewParameters(31)
	require.NoError(t, err)

	for _, p := range [][2]int64{{6, 8}, {5, 7}, {8, 6}, {-3, -1}, {-1, 1}} {
		withX, withY := ScalarAgreement(params, p[0], p[1])
		require.True(t, withX, "x = %d, y = %d", p[0], p[1])
		require.True(t, withY, "x = %d, y = %d", p[0], p[1])
	}

	// |11 - 7| = 4 < ErrorBound(31) = 5
	require.Equal(t, int64(5), ErrorBound(31))
	withX, _ := ScalarAgreement(params, 7, 11)
	require.True(t, withX)
}

func TestErrGen(t *testing.T) {
	erg := NewErrorGenerator(3.2, rand.New(rand.NewSource(1)))
	for i := 0; i < 1000; i++ {
		e := erg.GenEvenErr()
		require.Zero(t, e%2)
		require.Less(t, e, int64(2*3.2*10))
		require.Greater(t, e, int64(-2*3.2*10))
	}

	a := NewErrorGenerator(1, rand.New(rand.NewSource(7)))
	b := NewErrorGenerator(1, rand.New(rand.NewSource(7)))
	for i := 0; i < 100; i++ {
		require.Equal(t, a.GenErr(), b.GenErr())
	}
}

func TestAnalyzerRun(t *testing.T) {
	a := newTestAnalyzer(t, "analysis test")
	require.Equal(t, 1024, a.N())

	r, err := a.Run(20)
	require.NoError(t, err)
	require.Equal(t, 20, r.Trials)
	require.Equal(t, 1024, r.Coefficients)
	require.Len(t, r.Failures, 20)

	// only coefficients within a few sigma of the ±q/2 wrap can disagree
	require.Less(t, r.FailureRate, 0.01)
	require.GreaterOrEqual(t, r.Mean, 0.0)
	require.GreaterOrEqual(t, r.Stdev, 0.0)
	t.Logf("%v", r)

	_, err = a.Run(0)
	require.Error(t, err)
}

func TestAnalyzerDeterministicSeed(t *testing.T) {
	r1, err := newTestAnalyzer(t, "seed").Run(5)
	require.NoError(t, err)
	r2, err := newTestAnalyzer(t, "seed").Run(5)
	require.NoError(t, err)

	require.Equal(t, r1.Failures, r2.Failures)
}

func TestNewAnalyzerRejects(t *testing.T) {
	params, err := ding.NewParameters(31)
	require.NoError(t, err)

	prng, err := NewPRNG("")
	require.NoError(t, err)

	// 31 is not 1 mod 2N for any usable ring degree
	_, err = NewAnalyzer(params, 10, 3.2, prng)
	require.Error(t, err)

	params, err = ding.NewParameters(12289)
	require.NoError(t, err)
	_, err = NewAnalyzer(params, 10, 0, prng)
	require.Error(t, err)
}

func TestRunScalar(t *testing.T) {
	params, err := ding.NewParameters(12289)
	require.NoError(t, err)

	src := rand.New(rand.NewSource(42))
	r, err := RunScalar(params, NewErrorGenerator(3.2, src), src, 10000)
	require.NoError(t, err)
	require.Equal(t, 10000, r.Trials)
	require.Less(t, r.FailureRate, 0.01)

	_, err = RunScalar(params, NewErrorGenerator(3.2, src), src, -1)
	require.Error(t, err)
}

func BenchmarkAnalyzerTrial(b *testing.B) {
	a := newTestAnalyzer(b, "bench")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Trial(); err != nil {
			b.Fatal(err)
		}
	}
}
