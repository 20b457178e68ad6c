package property_test

import (
	"encoding/json"
	"testing"

	"github.com/randalmurphal/capture/pkg/capture/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties_SetPreservesInsertionOrder(t *testing.T) {
	props := property.NewProperties()
	props.Set("c", property.Number(1))
	props.Set("a", property.Number(2))
	props.Set("b", property.Number(3))

	assert.Equal(t, []string{"c", "a", "b"}, props.Keys())

	// Overwriting keeps the original position
	props.Set("a", property.Number(9))
	assert.Equal(t, []string{"c", "a", "b"}, props.Keys())

	val, ok := props.Get("a")
	require.True(t, ok)
	assert.Equal(t, 9.0, val.NumberVal())
}

func TestProperties_SetOnce(t *testing.T) {
	props := property.NewProperties()

	assert.True(t, props.SetOnce("k", property.String("first")))
	assert.False(t, props.SetOnce("k", property.String("second")))

	val, _ := props.Get("k")
	assert.Equal(t, "first", val.StringVal())
}

func TestProperties_Delete(t *testing.T) {
	props := property.NewProperties()
	props.Set("a", property.Number(1))
	props.Set("b", property.Number(2))

	props.Delete("a")
	assert.Equal(t, []string{"b"}, props.Keys())
	assert.False(t, props.Has("a"))

	// Deleting a missing key is a no-op
	props.Delete("missing")
	assert.Equal(t, 1, props.Len())
}

func TestProperties_MergeOverwrites(t *testing.T) {
	base := property.NewProperties()
	base.Set("keep", property.String("base"))
	base.Set("override", property.String("base"))

	layer := property.NewProperties()
	layer.Set("override", property.String("layer"))
	layer.Set("added", property.String("layer"))

	base.Merge(layer)

	keep, _ := base.Get("keep")
	override, _ := base.Get("override")
	added, _ := base.Get("added")
	assert.Equal(t, "base", keep.StringVal())
	assert.Equal(t, "layer", override.StringVal())
	assert.Equal(t, "layer", added.StringVal())
	assert.Equal(t, []string{"keep", "override", "added"}, base.Keys())
}

func TestProperties_CloneIsIndependent(t *testing.T) {
	orig := property.NewProperties()
	orig.Set("a", property.Number(1))

	clone := orig.Clone()
	clone.Set("b", property.Number(2))

	assert.Equal(t, 1, orig.Len())
	assert.Equal(t, 2, clone.Len())
	assert.True(t, orig.Equal(orig.Clone()))
}

func TestProperties_JSONRoundTripPreservesOrder(t *testing.T) {
	props := property.NewProperties()
	props.Set("z", property.Number(1))
	props.Set("a", property.String("x"))
	props.Set("m", property.Bool(true))

	data, err := json.Marshal(props)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":true}`, string(data))

	restored := property.NewProperties()
	require.NoError(t, json.Unmarshal(data, restored))
	assert.True(t, props.Equal(restored))
	assert.Equal(t, []string{"z", "a", "m"}, restored.Keys())
}

func TestFromMap_RejectsEmptyKey(t *testing.T) {
	_, err := property.FromMap(map[string]any{"": 1})
	require.ErrorIs(t, err, property.ErrEmptyKey)
}

func TestFromMap_AttachesKeyToError(t *testing.T) {
	_, err := property.FromMap(map[string]any{"bad": struct{}{}})
	var invalid *property.InvalidValueError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bad", invalid.Key)
}

func TestFromMap_Deterministic(t *testing.T) {
	m := map[string]any{"b": 1, "a": 2, "c": 3}

	first, err := property.FromMap(m)
	require.NoError(t, err)
	second, err := property.FromMap(m)
	require.NoError(t, err)

	assert.Equal(t, first.Keys(), second.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, first.Keys())
}
