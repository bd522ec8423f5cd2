package scenepb

import (
	"testing"

	"EasyVis/shared/scenedata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestGeneratedSceneSurvivesEncoding(t *testing.T) {
	in := scenedata.Generate(60)

	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	assert.Equal(t, in.Descriptors(), out.Descriptors())
}

func TestExplicitBlackIsNotLost(t *testing.T) {
	in := &scenedata.Scene{Structures: map[string][]scenedata.Record{
		"dark": {{Type: scenedata.KindCuboid, Color: scenedata.Color(0)}, {}},
	}}

	out, err := Unmarshal(Marshal(in))
	require.NoError(t, err)
	records := out.Structures["dark"]
	require.Len(t, records, 2)
	require.NotNil(t, records[0].Color)
	assert.Equal(t, uint32(0), *records[0].Color)
	assert.Nil(t, records[1].Color)
	assert.Equal(t, uint32(0xffffff), records[1].Normalize().Color)
}

func TestMarshalIsDeterministic(t *testing.T) {
	s := scenedata.Generate(20)
	assert.Equal(t, Marshal(s), Marshal(s))
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	var rec []byte
	rec = protowire.AppendTag(rec, 99, protowire.VarintType)
	rec = protowire.AppendVarint(rec, 7)
	rec = protowire.AppendTag(rec, fieldRecordType, protowire.BytesType)
	rec = protowire.AppendString(rec, "cuboid")

	var st []byte
	st = protowire.AppendTag(st, fieldStructureName, protowire.BytesType)
	st = protowire.AppendString(st, "x")
	st = protowire.AppendTag(st, fieldStructureRecord, protowire.BytesType)
	st = protowire.AppendBytes(st, rec)

	var b []byte
	b = protowire.AppendTag(b, fieldSceneStructure, protowire.BytesType)
	b = protowire.AppendBytes(b, st)

	s, err := Unmarshal(b)
	require.NoError(t, err)
	require.Len(t, s.Structures["x"], 1)
	assert.Equal(t, "cuboid", s.Structures["x"][0].Type)
}

func TestUnmarshalMalformed(t *testing.T) {
	_, err := Unmarshal([]byte{0x0a, 0xff})
	assert.ErrorIs(t, err, scenedata.ErrMalformed)

	bad := &scenedata.Scene{Structures: map[string][]scenedata.Record{"x": {{Scale: []float64{1, 2}}}}}
	_, err = Unmarshal(Marshal(bad))
	assert.ErrorIs(t, err, scenedata.ErrMalformed)
}

func TestUnmarshalEmpty(t *testing.T) {
	s, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Structures)
}
