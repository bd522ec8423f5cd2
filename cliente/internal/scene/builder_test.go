package scene_test

import (
	"testing"

	"EasyVis/cliente/internal/scene"
	"EasyVis/shared/scenedata"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAxesExample(t *testing.T) {
	c, _, _ := newCache(t)
	structures := map[string][]scenedata.Descriptor{
		"axes": {
			{Kind: scenedata.KindCuboid, Color: 0xffffff, Scale: [3]float32{2, 2, 2}},
			{Kind: scenedata.KindSphere, Color: 0xff0000, Scale: [3]float32{1, 1, 1}, Position: [3]float32{2, 0, 0}},
		},
	}

	groups := scene.BuildObjects(structures, c)

	require.Len(t, groups, 1)
	axes := groups[0]
	assert.Equal(t, "axes", axes.Name)
	require.Equal(t, 2, axes.Len())
	assert.Same(t, c.Shape(scenedata.KindCuboid), axes.Instances()[0].Shape())
	assert.Same(t, c.Shape(scenedata.KindSphere), axes.Instances()[1].Shape())
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, axes.Instances()[1].Position)
}

func TestBuildGroupsSortedAndFrozen(t *testing.T) {
	c, _, _ := newCache(t)
	structures := map[string][]scenedata.Descriptor{
		"zeta":  {sphere(1)},
		"alpha": {sphere(2), sphere(3)},
		"mid":   {},
	}

	groups := scene.BuildObjects(structures, c)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{groups[0].Name, groups[1].Name, groups[2].Name})
	assert.Zero(t, groups[1].Len())
	for _, g := range groups {
		assert.Equal(t, mgl32.Ident4(), g.Matrix())
		for _, inst := range g.Instances() {
			assert.False(t, inst.MatrixAutoUpdate)
		}
	}

	assert.Same(t, groups[2], scene.FindGroup(groups, "zeta"))
	assert.Nil(t, scene.FindGroup(groups, "missing"))
}

func TestBuildSceneNormalizesRecords(t *testing.T) {
	c, _, _ := newCache(t)
	s := &scenedata.Scene{Structures: map[string][]scenedata.Record{
		"boundary": {
			{Type: "cuboid", Color: scenedata.Color(0)},
			{XYZ: []float64{1, 2, 3}},
		},
	}}

	groups := scene.BuildScene(s, c)

	require.Len(t, groups, 1)
	insts := groups[0].Instances()
	require.Len(t, insts, 2)
	assert.Equal(t, uint32(0), insts[0].Appearance().Color)
	assert.Equal(t, scenedata.DefaultColor, insts[1].Appearance().Color)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, insts[1].Position)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, insts[1].Scale)
}

func TestRebuildReusesCacheAcrossBuilds(t *testing.T) {
	c, dev, _ := newCache(t)
	structures := map[string][]scenedata.Descriptor{"s": {sphere(0xff0000), sphere(0x00ff00)}}

	first := scene.BuildObjects(structures, c)
	second := scene.BuildObjects(structures, c)

	assert.NotSame(t, first[0].Instances()[0], second[0].Instances()[0])
	assert.Same(t, first[0].Instances()[0].Appearance(), second[0].Instances()[0].Appearance())
	assert.Len(t, dev.Materials, 2)
}
