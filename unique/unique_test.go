package unique

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("low 32 bits are zero and value is unindexed", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			id := Generate()
			assert.Zero(t, id.lo&indexMaskLo)
			assert.False(t, id.Indexed())
			_, ok := id.Index()
			assert.False(t, ok)
		}
	})

	t.Run("non-negative", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			assert.GreaterOrEqual(t, Generate().Compare(ID{}), 0)
		}
	})

	t.Run("uniqueness litmus", func(t *testing.T) {
		seen := make(map[ID]bool, 1000)
		for i := 0; i < 1000; i++ {
			id := Generate()
			require.False(t, seen[id], "duplicate identifier generated")
			seen[id] = true
		}
	})
}

func TestGenerateWithIndex(t *testing.T) {
	for _, index := range []uint32{0, 1, 42, math.MaxUint32 - 1, math.MaxUint32} {
		id := GenerateWithIndex(index)
		assert.True(t, id.Indexed())
		got, ok := id.Index()
		require.True(t, ok)
		assert.Equal(t, index, got)

		// Indexed values sort before any unindexed value.
		assert.Negative(t, id.Compare(Generate()))
	}
}

func TestReindex(t *testing.T) {
	t.Run("unindexed gains an index", func(t *testing.T) {
		id := Generate()
		indexed, changed := id.Reindex(7)
		require.True(t, changed)
		got, ok := indexed.Index()
		require.True(t, ok)
		assert.Equal(t, uint32(7), got)
	})

	t.Run("idempotent for the same index", func(t *testing.T) {
		id := Generate()
		indexed, _ := id.Reindex(7)
		same, changed := indexed.Reindex(7)
		assert.False(t, changed)
		assert.Equal(t, indexed, same)
	})

	t.Run("index replacement keeps entropy", func(t *testing.T) {
		id := Generate()
		a, _ := id.Reindex(3)
		b, changed := a.Reindex(9)
		require.True(t, changed)
		got, _ := b.Index()
		assert.Equal(t, uint32(9), got)
		assert.Zero(t, a.entropy().Cmp(b.entropy()))
	})

	t.Run("masked magnitude recovers the generated entropy", func(t *testing.T) {
		id := Generate()
		indexed, _ := id.Reindex(12345)
		stripped := ID{hi: indexed.hi, lo: indexed.lo &^ indexMaskLo}
		assert.Equal(t, id, stripped.neg())
	})
}

func TestCompare(t *testing.T) {
	a := GenerateWithIndex(1)
	b := Generate()
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, -b.Compare(a), a.Compare(b))

	lo := ID{hi: 1, lo: 2}
	hi := ID{hi: 1, lo: 3}
	assert.Negative(t, lo.Compare(hi))
	assert.Positive(t, hi.Compare(lo))
}

func TestJSONRoundTrip(t *testing.T) {
	for _, id := range []ID{Generate(), GenerateWithIndex(0), GenerateWithIndex(math.MaxUint32), {}} {
		data, err := json.Marshal(id)
		require.NoError(t, err)

		var back ID
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, id, back, "round trip of %s via %s", id, data)
	}
}

func TestUnmarshalForms(t *testing.T) {
	t.Run("quoted decimal", func(t *testing.T) {
		var id ID
		require.NoError(t, id.UnmarshalJSON([]byte(`"-42"`)))
		assert.True(t, id.Indexed())
	})

	t.Run("garbage", func(t *testing.T) {
		var id ID
		assert.Error(t, id.UnmarshalJSON([]byte(`"not-a-number"`)))
	})

	t.Run("out of range", func(t *testing.T) {
		var id ID
		assert.Error(t, id.UnmarshalJSON([]byte("340282366920938463463374607431768211456")))
	})
}

func TestString(t *testing.T) {
	assert.Contains(t, Generate().String(), "UniqueId(")
	indexed := GenerateWithIndex(9)
	assert.Contains(t, indexed.String(), ":9)")
}
