package distribution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLogUniform(t *testing.T, lo, hi float64) *LogUniform {
	t.Helper()
	l, err := NewLogUniform(lo, hi)
	require.NoError(t, err)
	return l
}

func TestRevertToOriginal_RecoversParameters(t *testing.T) {
	tests := []struct {
		name string
		dist Distribution
	}{
		{"uniform", NewUniform(0.0, 10.0)},
		{"randint", NewRandInt(0, 10)},
		{"loguniform", mustLogUniform(t, 1.0, 8.0)},
		{"normal", NewNormal(0.0, 1.0)},
		{"lognormal", NewLogNormal(0.0, 1.0)},
		{"choice", NewChoice([]any{"a", "b", "c"})},
		{"quantized", NewQuantized(NewUniform(0.0, 10.0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrowed := tt.dist.Narrow(2.0, 0.5).Narrow(2.0, 0.5)
			reverted := narrowed.RevertToOriginal()

			require.True(t, Same(reverted, tt.dist), "reverting should recover the original identity")
			require.NotSame(t, tt.dist, reverted, "revert must return a duplicate, not the live original")
		})
	}
}

func TestRevertToOriginal_MatchesDirectRevert(t *testing.T) {
	// d.Narrow(g, r).RevertToOriginal() is parameter-equal to
	// d.RevertToOriginal() for any valid g and r.
	u := NewUniform(0.0, 10.0)

	viaNarrow := u.Narrow(7.0, 0.3).RevertToOriginal().(*Uniform)
	direct := u.RevertToOriginal().(*Uniform)

	nlo, nhi := viaNarrow.Bounds()
	dlo, dhi := direct.Bounds()
	require.Equal(t, dlo, nlo)
	require.Equal(t, dhi, nhi)
}

func TestRevertToOriginal_VirginReturnsDuplicateOfSelf(t *testing.T) {
	u := NewUniform(0.0, 10.0)

	got := u.RevertToOriginal()

	require.True(t, Same(got, u))
	require.NotSame(t, Distribution(u), got)
}

func TestCurrentNarrowingRatio_Accumulates(t *testing.T) {
	u := NewUniform(0.0, 100.0)
	require.Equal(t, 1.0, u.CurrentNarrowingRatio())

	first := u.Narrow(50.0, 0.5)
	require.InDelta(t, 0.5, first.CurrentNarrowingRatio(), 1e-12)

	second := first.Narrow(50.0, 0.5)
	require.InDelta(t, 0.25, second.CurrentNarrowingRatio(), 1e-12)
}

func TestNarrow_ParentUnaffected(t *testing.T) {
	u := NewUniform(0.0, 10.0)

	_ = u.Narrow(5.0, 0.5)

	lo, hi := u.Bounds()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 10.0, hi)
	require.Equal(t, 1.0, u.CurrentNarrowingRatio())
	require.Nil(t, u.original)
}

func TestNarrow_OriginalChainDepthIsOne(t *testing.T) {
	u := NewUniform(0.0, 10.0)

	d := Distribution(u)
	for i := 0; i < 5; i++ {
		d = d.Narrow(5.0, 0.9)
		reverted := d.RevertToOriginal()
		require.True(t, Same(reverted, u), "step %d: chain must always end at the true original", i)
	}
}

func TestSame_IdentityNotParameters(t *testing.T) {
	a := NewUniform(0.0, 10.0)
	b := NewUniform(0.0, 10.0)

	require.False(t, Same(a, b), "parameter-equal distributions are still distinct identities")
	require.True(t, Same(a, a.clone().(*Uniform)))
}
