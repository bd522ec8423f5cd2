// Package scenetest fornece Device e Surface em memória para testar o pacote
// scene sem GPU.
package scenetest

import "EasyVis/cliente/internal/scene"

// Handle é o recurso "alocado" pelo FakeDevice.
type Handle struct {
	Kind     string
	Color    uint32
	Disposes int
	device   *FakeDevice
}

// Dispose conta a liberação no handle e no device.
func (h *Handle) Dispose() {
	h.Disposes++
	if h.device != nil {
		h.device.Disposed++
	}
}

// FakeDevice conta alocações e liberações.
type FakeDevice struct {
	Meshes    []*Handle
	Materials []*Handle
	Disposed  int
}

// NewMesh registra uma geometria.
func (d *FakeDevice) NewMesh(kind string) scene.Disposable {
	h := &Handle{Kind: kind, device: d}
	d.Meshes = append(d.Meshes, h)
	return h
}

// NewMaterial registra um material.
func (d *FakeDevice) NewMaterial(color uint32) scene.Disposable {
	h := &Handle{Color: color, device: d}
	d.Materials = append(d.Materials, h)
	return h
}

// Allocated retorna o total de recursos alocados.
func (d *FakeDevice) Allocated() int {
	return len(d.Meshes) + len(d.Materials)
}

// Size é um SetSize registrado.
type Size struct{ Width, Height int }

// RecordingSurface guarda cópias dos quadros recebidos.
type RecordingSurface struct {
	Frames   []scene.Frame
	Sizes    []Size
	Disposed bool
}

// SetSize registra o novo tamanho.
func (s *RecordingSurface) SetSize(width, height int) {
	s.Sizes = append(s.Sizes, Size{width, height})
}

// Draw copia o quadro, incluindo as listas, para que mudanças posteriores na
// cena não alterem o histórico.
func (s *RecordingSurface) Draw(frame *scene.Frame) {
	f := *frame
	f.Items = append([]scene.DrawItem(nil), frame.Items...)
	f.Lights = append([]scene.Light(nil), frame.Lights...)
	s.Frames = append(s.Frames, f)
}

// Dispose marca a superfície como descartada.
func (s *RecordingSurface) Dispose() {
	s.Disposed = true
}

// LastFrame retorna o último quadro desenhado, ou nil.
func (s *RecordingSurface) LastFrame() *scene.Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}
