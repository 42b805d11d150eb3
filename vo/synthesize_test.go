package vo_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/authcorp/valueobject/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intRules stands for int while carrying its own payload type.
type intRules struct{}

func (*intRules) UnderlyingType() reflect.Type { return reflect.TypeFor[int]() }

func (*intRules) Validate(raw any) (any, error) {
	n, ok := raw.(int)
	if !ok || n < 0 {
		return nil, errors.New("want a non-negative int")
	}
	return n, nil
}

func TestSynthesizePicksBestKind(t *testing.T) {
	stamp, err := vo.Synthesize[time.Time](nil, "CreatedAt", nil)
	require.NoError(t, err)
	assert.Equal(t, vo.DateTimeKind, stamp.Kind())
	assert.True(t, stamp.MustNew(time.Time{}).Truthy(), "date-like values are always truthy")

	day, err := vo.Synthesize[vo.Date](nil, "Day", nil)
	require.NoError(t, err)
	assert.Equal(t, vo.DateKind, day.Kind())

	labels, err := vo.Synthesize[map[string]string](nil, "Labels", nil)
	require.NoError(t, err)
	assert.Equal(t, vo.MappingKind, labels.Kind())

	point, err := vo.Synthesize[struct{ X, Y int }](nil, "Point", nil)
	require.NoError(t, err)
	assert.Equal(t, vo.RootKind, point.Kind())
}

func TestSynthesizeUsesAnnotatedType(t *testing.T) {
	count, err := vo.Synthesize[any](nil, "Count", &intRules{})
	require.NoError(t, err)
	assert.Equal(t, vo.IntKind, count.Kind())

	v, err := count.New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Raw())

	_, err = count.New("3")
	assert.EqualError(t, err, "want a non-negative int")
}

func TestSynthesizeWithCustomRegistry(t *testing.T) {
	reg := vo.NewRegistry()
	user := vo.NewKind("User", vo.Accepts(reflect.TypeFor[userID]()))
	reg.MustRegister(user)

	admin, err := vo.Synthesize[adminID](reg, "Admin", nil, vo.Sensitive())
	require.NoError(t, err)
	assert.Equal(t, user, admin.Kind())
	assert.True(t, admin.Sensitive())

	s := admin.Schema()
	assert.Equal(t, "Admin", s.Title)
	assert.True(t, s.WriteOnly)
}

func TestDefineChecksDeclaredKind(t *testing.T) {
	_, err := vo.Define[any]("Count", &intRules{}, vo.WithKind(vo.StringKind))
	require.ErrorIs(t, err, vo.ErrTypeMismatch)

	count, err := vo.Define[any]("Count", &intRules{}, vo.WithKind(vo.IntKind))
	require.NoError(t, err)
	assert.Equal(t, vo.IntKind, count.Kind())
}
