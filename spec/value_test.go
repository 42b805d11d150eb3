package spec_test

import (
	"testing"

	"github.com/authcorp/valueobject/spec"
	"github.com/authcorp/valueobject/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecPayloadCombinators(t *testing.T) {
	rule := vo.Must(vo.Define[*spec.Spec[int]]("Rule", nil))
	positive := rule.MustNew(spec.New(func(x int) bool { return x > 0 }))
	even := rule.MustNew(spec.New(func(x int) bool { return x%2 == 0 }))

	both, err := positive.And(even)
	require.NoError(t, err)
	assert.True(t, both.IsSatisfiedBy(2))
	assert.False(t, both.IsSatisfiedBy(3))

	either, err := positive.Or(even.Raw())
	require.NoError(t, err)
	assert.True(t, either.IsSatisfiedBy(-2))

	one, err := positive.Xor(even)
	require.NoError(t, err)
	assert.True(t, one.IsSatisfiedBy(3))
	assert.False(t, one.IsSatisfiedBy(4))

	reflected, err := positive.RAnd(even)
	require.NoError(t, err)
	for _, x := range []int{-3, -2, 3, 4} {
		assert.Equal(t, both.IsSatisfiedBy(x), reflected.IsSatisfiedBy(x), "%d", x)
	}

	other := vo.Must(vo.Define[*spec.Spec[int]]("OtherRule", nil))
	_, err = positive.And(other.MustNew(spec.True[int]()))
	assert.ErrorIs(t, err, vo.ErrTypeMismatch)
}

func TestSpecAsValidator(t *testing.T) {
	port := vo.Must(vo.DefineInt("Port", spec.Between(1, 65535).Validator("Port", "must be a TCP port")))

	_, err := port.New(8080)
	require.NoError(t, err)

	_, err = port.New(0)
	require.ErrorIs(t, err, vo.ErrInvalidValue)
	assert.Contains(t, err.Error(), "Port: must be a TCP port")
}
