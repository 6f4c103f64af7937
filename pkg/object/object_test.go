package object

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsobject/pkg/class"
	objerrors "jsobject/pkg/errors"
	"jsobject/pkg/value"
)

// fakeRuntime is a minimal object.Runtime for exercising the core in
// isolation, without pulling in pkg/runtime (which itself depends on this
// package).
type fakeRuntime struct {
	next   uint64
	cfg    RuntimeConfig
	logger *slog.Logger
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		cfg:    RuntimeConfig{ForInCacheMaxRatio: 4},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (r *fakeRuntime) NextObjectID() uint64 {
	for {
		id := atomic.AddUint64(&r.next, 1)
		if id != 0 {
			return id
		}
	}
}

func (r *fakeRuntime) Config() RuntimeConfig { return r.cfg }
func (r *fakeRuntime) Logger() *slog.Logger  { return r.logger }

func newTestObject(rt Runtime, parent *JSObject) *JSObject {
	return New(rt, parent)
}

func TestPutThenGetRoundTrip(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	ok, err := o.PutNamed(value.StringKey("a"), value.Number(1), PutFlags{ThrowOnError: true})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := o.GetNamed(value.StringKey("a"), false, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(1), got))
}

func TestScenario1_OverwriteThenEnumerate(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	_, _ = o.PutNamed(value.StringKey("a"), value.Number(1), PutFlags{})
	_, _ = o.PutNamed(value.StringKey("b"), value.Number(2), PutFlags{})
	_, _ = o.PutNamed(value.StringKey("a"), value.Number(3), PutFlags{})

	names := o.GetOwnPropertyNames(false)
	require.Len(t, names, 2)
	assert.Equal(t, "a", names[0].String())
	assert.Equal(t, "b", names[1].String())

	got, err := o.GetNamed(value.StringKey("a"), false, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(3), got))
}

func TestScenario2_DefinePropertyAcceptedChangeSet(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	ok, err := o.DefineOwnProperty(value.StringKey("x"), class.DefinePropertyFlags{
		SetValue: true, Value: value.Number(1),
		SetWritable: true, Writable: false,
		SetConfigurable: true, Configurable: false,
		SetEnumerable: true, Enumerable: true,
	}, PutFlags{ThrowOnError: true})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = o.DefineOwnProperty(value.StringKey("x"), class.DefinePropertyFlags{
		SetValue: true, Value: value.Number(2),
	}, PutFlags{ThrowOnError: true})
	assert.Error(t, err, "changing the value of a non-writable, non-configurable property must fail")

	ok, err = o.DefineOwnProperty(value.StringKey("x"), class.DefinePropertyFlags{
		SetValue: true, Value: value.Number(1),
	}, PutFlags{ThrowOnError: true})
	require.NoError(t, err)
	assert.True(t, ok, "redefining with a SameValue value must succeed as a no-op")
}

func TestScenario4_PrototypeShadowingAndDelete(t *testing.T) {
	rt := newFakeRuntime()
	p := newTestObject(rt, nil)
	o := newTestObject(rt, nil)
	require.NoError(t, o.SetParent(p))

	_, _ = o.PutNamed(value.StringKey("a"), value.Number(1), PutFlags{})
	_, _ = p.PutNamed(value.StringKey("b"), value.Number(2), PutFlags{})

	got, err := o.GetNamed(value.StringKey("b"), false, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(2), got))

	ok, err := o.DeleteNamed(value.StringKey("b"), PutFlags{})
	require.NoError(t, err)
	assert.True(t, ok, "delete of an inherited (non-own) name vacuously succeeds")

	got, err = o.GetNamed(value.StringKey("b"), false, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(2), got), "prototype's own property is unaffected")
}

func TestScenario6_SealThenNewPropertyRejected(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)
	_, _ = o.PutNamed(value.StringKey("existing"), value.Number(1), PutFlags{})

	o.Seal()
	assert.True(t, o.IsSealed())

	o.PreventExtensions() // no-op per spec.md scenario 6

	_, err := o.PutNamed(value.StringKey("new"), value.Number(1), PutFlags{ThrowOnError: true})
	assert.Error(t, err)

	ok, err := o.PutNamed(value.StringKey("existing"), value.Number(99), PutFlags{ThrowOnError: true})
	require.NoError(t, err)
	assert.True(t, ok, "sealed (not frozen) objects still allow writes to existing data properties")
}

func TestFreezeRejectsWrites(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)
	_, _ = o.PutNamed(value.StringKey("a"), value.Number(1), PutFlags{})

	o.Freeze()
	assert.True(t, o.IsFrozen())
	assert.True(t, o.IsSealed())

	_, err := o.PutNamed(value.StringKey("a"), value.Number(2), PutFlags{ThrowOnError: true})
	assert.Error(t, err)
}

func TestPrototypeCycleRejected(t *testing.T) {
	rt := newFakeRuntime()
	a := newTestObject(rt, nil)
	b := newTestObject(rt, nil)
	require.NoError(t, b.SetParent(a))

	err := a.SetParent(b)
	require.Error(t, err)

	var typeErr *objerrors.TypeError
	assert.ErrorAs(t, err, &typeErr)
	assert.Nil(t, a.Parent(), "rejected SetParent must leave the parent pointer unchanged")
}

func TestDeleteOwnPropertyLeavesLaterPropertiesReadable(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	_, _ = o.PutNamed(value.StringKey("a"), value.Number(1), PutFlags{})
	_, _ = o.PutNamed(value.StringKey("b"), value.Number(2), PutFlags{})
	_, _ = o.PutNamed(value.StringKey("c"), value.Number(3), PutFlags{})

	ok, err := o.DeleteNamed(value.StringKey("b"), PutFlags{})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := o.GetNamed(value.StringKey("c"), true, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(3), got), "c's stored value must survive the deletion of an earlier own property")

	got, err = o.GetNamed(value.StringKey("a"), true, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(1), got))

	assert.False(t, o.HasNamed(value.StringKey("b")))
}

func TestHasNamedMatchesDescriptorPresence(t *testing.T) {
	rt := newFakeRuntime()
	p := newTestObject(rt, nil)
	o := newTestObject(rt, p)
	_, _ = p.PutNamed(value.StringKey("inherited"), value.Number(1), PutFlags{})

	assert.True(t, o.HasNamed(value.StringKey("inherited")))
	assert.False(t, o.HasNamed(value.StringKey("missing")))
}

func TestObjectIDStableAndNonzero(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	id1 := o.GetObjectID()
	id2 := o.GetObjectID()
	assert.NotZero(t, id1)
	assert.Equal(t, id1, id2)
}

func TestAccessorGetterSetterRoundTrip(t *testing.T) {
	rt := newFakeRuntime()
	o := newTestObject(rt, nil)

	var stored value.Value
	getter := callableFunc(func(this value.Value, args []value.Value) (value.Value, error) {
		return stored, nil
	})
	setter := callableFunc(func(this value.Value, args []value.Value) (value.Value, error) {
		stored = args[0]
		return value.Undefined, nil
	})

	ok, err := o.DefineOwnProperty(value.StringKey("p"), class.DefinePropertyFlags{
		SetGetter: true, Getter: value.FromObject(getter),
		SetSetter: true, Setter: value.FromObject(setter),
		SetEnumerable: true, Enumerable: true,
		SetConfigurable: true, Configurable: true,
	}, PutFlags{ThrowOnError: true})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = o.PutNamed(value.StringKey("p"), value.Number(42), PutFlags{ThrowOnError: true})
	require.NoError(t, err)

	got, err := o.GetNamed(value.StringKey("p"), false, nil)
	require.NoError(t, err)
	assert.True(t, value.SameValue(value.Number(42), got))
}

// callableFunc adapts a plain function to the Callable interface for tests.
type callableFunc func(this value.Value, args []value.Value) (value.Value, error)

func (f callableFunc) Call(this value.Value, args []value.Value) (value.Value, error) {
	return f(this, args)
}
