package views

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"EasyVis/cliente/internal/scene"
	"EasyVis/cliente/internal/scene/scenetest"
	"EasyVis/shared/config"
	"EasyVis/shared/scenedata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu     sync.Mutex
	scenes map[int]*scenedata.Scene
	errs   map[int]error
	calls  map[int]int
	block  chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		scenes: map[int]*scenedata.Scene{},
		errs:   map[int]error{},
		calls:  map[int]int{},
	}
}

func (f *fakeFetcher) FetchScene(ctx context.Context, viewID int) (*scenedata.Scene, error) {
	f.mu.Lock()
	f.calls[viewID]++
	block := f.block
	sc, err := f.scenes[viewID], f.errs[viewID]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if sc == nil {
		panic("cena não configurada")
	}
	return sc, nil
}

type harness struct {
	set      *Set
	device   *scenetest.FakeDevice
	surfaces []*scenetest.RecordingSurface
	logs     *bytes.Buffer
}

func newHarness(t *testing.T, fetcher Fetcher, width, height int, mutate func(*Options)) *harness {
	t.Helper()
	h := &harness{device: &scenetest.FakeDevice{}, logs: &bytes.Buffer{}}

	opts := OptionsFromConfig(config.DefaultConfig())
	opts.StaticPoints = 20
	opts.Logger = log.New(h.logs, "", 0)
	if mutate != nil {
		mutate(&opts)
	}

	factory := func(int) scene.Surface {
		s := &scenetest.RecordingSurface{}
		h.surfaces = append(h.surfaces, s)
		return s
	}
	h.set = NewSet(h.device, factory, fetcher, width, height, opts)
	t.Cleanup(h.set.Dispose)
	return h
}

func TestLayoutSplitsWidthEvenly(t *testing.T) {
	h := newHarness(t, nil, 1001, 600, func(o *Options) { o.Views = 3 })

	views := h.set.Views()
	require.Len(t, views, 3)
	for i, v := range views {
		w, hh := v.Viewport.Size()
		assert.Equal(t, 333, w)
		assert.Equal(t, 600, hh)
		assert.Equal(t, i*333, v.X)
		assert.InDelta(t, 333.0/600.0, v.Viewport.Camera().Aspect, 1e-6)
	}

	assert.Same(t, views[1], h.set.ViewAt(400, 10))
	assert.Nil(t, h.set.ViewAt(1000, 10))
	assert.Nil(t, h.set.ViewAt(10, 600))
}

func TestStaticSourceBuildsEveryView(t *testing.T) {
	h := newHarness(t, nil, 800, 600, nil)

	require.NoError(t, h.set.Load())

	want := scenedata.Generate(20).Count()
	for i, v := range h.set.Views() {
		assert.Equal(t, scene.Active, v.Viewport.State())
		assert.Equal(t, want, v.Viewport.InstanceCount())
		assert.True(t, v.Loaded)
		require.NotEmpty(t, h.surfaces[i].Frames)
	}

	// Views compartilham os materiais do mesmo cache.
	a := h.set.Views()[0].Viewport.Groups()[0].Instances()[0]
	b := h.set.Views()[1].Viewport.Groups()[0].Instances()[0]
	assert.NotSame(t, a, b)
	assert.Same(t, a.Appearance(), b.Appearance())
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"structures":{"a":[{"type":"cuboid"},{"type":"sphere"}]}}`), 0644))

	h := newHarness(t, nil, 800, 600, func(o *Options) {
		o.Source = config.SourceFile
		o.SceneFile = path
	})

	require.NoError(t, h.set.Load())
	assert.Equal(t, 2, h.set.Views()[0].Viewport.InstanceCount())
}

func TestFileSourceMissingLeavesViewsIdle(t *testing.T) {
	h := newHarness(t, nil, 800, 600, func(o *Options) {
		o.Source = config.SourceFile
		o.SceneFile = filepath.Join(t.TempDir(), "missing.json")
	})

	assert.Error(t, h.set.Load())
	for _, v := range h.set.Views() {
		assert.Equal(t, scene.Idle, v.Viewport.State())
		assert.Error(t, v.LastErr)
	}
}

func TestRemoteSourceAppliesResultsOnMainLoop(t *testing.T) {
	f := newFakeFetcher()
	f.scenes[0] = scenedata.Generate(10)
	f.scenes[1] = scenedata.Generate(30)

	h := newHarness(t, f, 800, 600, func(o *Options) { o.Source = config.SourceRemote })

	require.NoError(t, h.set.Load())
	h.set.Wait()

	// Nada muda até Apply rodar na thread principal.
	for _, v := range h.set.Views() {
		assert.Equal(t, scene.Idle, v.Viewport.State())
	}

	assert.Equal(t, 2, h.set.Apply())
	assert.Equal(t, scenedata.Generate(10).Count(), h.set.Views()[0].Viewport.InstanceCount())
	assert.Equal(t, scenedata.Generate(30).Count(), h.set.Views()[1].Viewport.InstanceCount())
	assert.False(t, h.set.Pending(0))
}

func TestRemoteFailureSkipsOnlyThatView(t *testing.T) {
	f := newFakeFetcher()
	f.scenes[0] = scenedata.Generate(10)
	f.errs[1] = errors.New("conexão recusada")

	h := newHarness(t, f, 800, 600, func(o *Options) { o.Source = config.SourceRemote })
	require.NoError(t, h.set.Load())
	h.set.Wait()

	assert.Equal(t, 1, h.set.Apply())
	assert.Equal(t, scene.Active, h.set.Views()[0].Viewport.State())
	assert.Equal(t, scene.Idle, h.set.Views()[1].Viewport.State())
	assert.Error(t, h.set.Views()[1].LastErr)
	assert.Contains(t, h.logs.String(), "view 1")
}

func TestRemoteFailureKeepsLastGoodScene(t *testing.T) {
	f := newFakeFetcher()
	f.scenes[0] = scenedata.Generate(10)

	h := newHarness(t, f, 800, 600, func(o *Options) {
		o.Source = config.SourceRemote
		o.Views = 1
	})
	require.NoError(t, h.set.Load())
	h.set.Wait()
	h.set.Apply()
	groups := h.set.Views()[0].Viewport.Groups()

	f.mu.Lock()
	f.errs[0] = errors.New("500")
	f.mu.Unlock()
	h.set.Fetch(0)
	h.set.Wait()
	h.set.Apply()

	assert.Equal(t, groups, h.set.Views()[0].Viewport.Groups())
	for _, g := range groups {
		assert.False(t, g.Disposed())
	}
}

func TestFetchPanicIsRecovered(t *testing.T) {
	f := newFakeFetcher() // sem cena configurada: o fake entra em panic

	h := newHarness(t, f, 800, 600, func(o *Options) {
		o.Source = config.SourceRemote
		o.Views = 1
	})
	require.NoError(t, h.set.Load())
	h.set.Wait()
	h.set.Apply()

	assert.Equal(t, scene.Idle, h.set.Views()[0].Viewport.State())
	assert.ErrorContains(t, h.set.Views()[0].LastErr, "panic")
}

func TestFetchNotRepeatedWhilePending(t *testing.T) {
	f := newFakeFetcher()
	f.scenes[0] = scenedata.Generate(10)
	f.block = make(chan struct{})

	h := newHarness(t, f, 800, 600, func(o *Options) {
		o.Source = config.SourceRemote
		o.Views = 1
	})
	h.set.Fetch(0)
	h.set.Fetch(0)
	assert.True(t, h.set.Pending(0))

	close(f.block)
	h.set.Wait()
	h.set.Apply()

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.calls[0])
}

func TestRemoteWithoutFetcher(t *testing.T) {
	h := newHarness(t, nil, 800, 600, func(o *Options) { o.Source = config.SourceRemote })
	assert.Error(t, h.set.Load())
}

func TestUnknownSource(t *testing.T) {
	h := newHarness(t, nil, 800, 600, func(o *Options) { o.Source = "ftp" })
	assert.Error(t, h.set.Load())
}

func TestResizeIsThrottled(t *testing.T) {
	h := newHarness(t, nil, 800, 600, func(o *Options) { o.ResizeThrottle = 100 * time.Millisecond })
	require.NoError(t, h.set.Load())
	start := time.Unix(1000, 0)

	h.set.RequestResize(1000, 500)
	h.set.Frame(start)
	w, _ := h.set.Views()[0].Viewport.Size()
	assert.Equal(t, 500, w)

	h.set.RequestResize(1200, 500)
	h.set.Frame(start.Add(50 * time.Millisecond))
	w, _ = h.set.Views()[0].Viewport.Size()
	assert.Equal(t, 500, w, "dentro do intervalo o resize espera")

	h.set.RequestResize(1400, 700)
	h.set.Frame(start.Add(120 * time.Millisecond))
	w, hh := h.set.Views()[0].Viewport.Size()
	assert.Equal(t, 700, w)
	assert.Equal(t, 700, hh)
	assert.Equal(t, 700, h.set.Views()[1].X)
}

func TestResizeRejectsZeroHeight(t *testing.T) {
	h := newHarness(t, nil, 800, 600, nil)

	h.set.Resize(800, 0)

	w, hh := h.set.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, hh)
	assert.Contains(t, h.logs.String(), "Resize ignorado")
}

func TestStaticRegimeRendersOnlyOnChange(t *testing.T) {
	h := newHarness(t, nil, 800, 600, nil)
	require.NoError(t, h.set.Load())
	frames := len(h.surfaces[0].Frames)

	h.set.Frame(time.Now())
	assert.Len(t, h.surfaces[0].Frames, frames, "sem interação nada é desenhado")

	h.set.Views()[0].Viewport.Controls().Rotate(0.3, 0)
	h.set.Frame(time.Now())
	assert.Greater(t, len(h.surfaces[0].Frames), frames)
	assert.Len(t, h.surfaces[1].Frames, frames)
}

func TestContinuousRegimeSpinsAndRenders(t *testing.T) {
	h := newHarness(t, nil, 800, 600, func(o *Options) { o.Continuous = true })
	require.NoError(t, h.set.Load())
	frames := len(h.surfaces[0].Frames)

	h.set.Frame(time.Now())
	h.set.Frame(time.Now())

	assert.Len(t, h.surfaces[0].Frames, frames+2)
	for _, g := range h.set.Views()[0].Viewport.Groups() {
		assert.InDelta(t, 0.02, g.Rotation.Y(), 1e-6)
	}
}

func TestDisposeReleasesEverything(t *testing.T) {
	h := newHarness(t, nil, 800, 600, nil)
	require.NoError(t, h.set.Load())

	h.set.Dispose()

	assert.True(t, h.set.Cache().Released())
	assert.Equal(t, h.device.Allocated(), h.device.Disposed)
	for i, v := range h.set.Views() {
		assert.Equal(t, scene.Disposed, v.Viewport.State())
		assert.True(t, h.surfaces[i].Disposed)
	}
}

func TestRebuildReplacesOnlyThatView(t *testing.T) {
	h := newHarness(t, nil, 800, 600, nil)
	require.NoError(t, h.set.Load())
	old := h.set.Views()[0].Viewport.Groups()
	other := h.set.Views()[1].Viewport.Groups()
	materials := h.set.Cache().AppearanceCount()

	require.NoError(t, h.set.Rebuild(0, scenedata.Generate(5)))

	for _, g := range old {
		assert.True(t, g.Disposed())
	}
	assert.Equal(t, other, h.set.Views()[1].Viewport.Groups())
	assert.Equal(t, scenedata.Generate(5).Count(), h.set.Views()[0].Viewport.InstanceCount())
	assert.Equal(t, materials, h.set.Cache().AppearanceCount())

	assert.Error(t, h.set.Rebuild(7, scenedata.Generate(5)))
}
