package metrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/authcorp/valueobject/metrics"
	"github.com/authcorp/valueobject/validation"
	"github.com/authcorp/valueobject/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	kinds := vo.NewRegistry()
	kinds.MustRegister(vo.BuiltinKinds()...)
	obs := metrics.NewObserver("", reg, metrics.WithRegistry(kinds))

	code := vo.Must(vo.DefineString("Code", validation.Tag[string]("required,len=4"), vo.WithObserver(obs)))
	_, err := code.New("ABCD")
	require.NoError(t, err)
	_, err = code.New("ABCD")
	require.NoError(t, err)
	_, err = code.New("")
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.ConstructedTotal.WithLabelValues("Code", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.ConstructedTotal.WithLabelValues("Code", metrics.OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.ValidationIssuesTotal.WithLabelValues("Code")))
	assert.Equal(t, float64(len(vo.BuiltinKinds())), testutil.ToFloat64(obs.RegistryKinds))

	expected := `
# HELP valueobject_registry_kinds Number of kinds in the value object registry
# TYPE valueobject_registry_kinds gauge
valueobject_registry_kinds 8
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "valueobject_registry_kinds"))

	kinds.Reset()
	assert.Zero(t, testutil.ToFloat64(obs.RegistryKinds))
}

func TestObserverOnArithmetic(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := metrics.NewObserver("shop", reg)

	qty := vo.Must(vo.DefineInt("Qty", validation.Tag[int]("gte=0"), vo.WithObserver(obs)))
	a := qty.MustNew(1)
	_, err := a.Sub(qty.MustNew(2))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(obs.ConstructedTotal.WithLabelValues("Qty", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(obs.ConstructedTotal.WithLabelValues("Qty", metrics.OutcomeInvalid)))

	n, err := testutil.GatherAndCount(reg, "shop_constructed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeOK, metrics.Outcome(nil))
	assert.Equal(t, metrics.OutcomeInvalid, metrics.Outcome(&validation.Error{}))
	assert.Equal(t, metrics.OutcomeInvalid, metrics.Outcome(vo.NewInvalidValueError("X", "bad")))
	assert.Equal(t, metrics.OutcomeError, metrics.Outcome(errors.New("boom")))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewObserver("dup", reg)
	assert.Panics(t, func() { metrics.NewObserver("dup", reg) })
}
