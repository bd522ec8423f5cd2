package scene

import (
	"fmt"
	"log"

	"EasyVis/cliente/internal/camera"

	"github.com/go-gl/mathgl/mgl32"
)

// State é o estado do ciclo de vida de um Viewport.
type State int

const (
	Idle     State = iota // Construído, sem cena adotada
	Active                // Com cena adotada
	Disposed              // Terminal
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	case Disposed:
		return "Disposed"
	}
	return "Unknown"
}

// Surface é o alvo de saída de um viewport.
type Surface interface {
	SetSize(width, height int)
	Draw(frame *Frame)
	Dispose()
}

// DrawItem é uma instância pronta para desenhar, com a matriz de mundo já composta.
type DrawItem struct {
	Shape      *Shape
	Appearance *Appearance
	World      mgl32.Mat4
}

// Frame é tudo que a Surface precisa para desenhar um quadro.
type Frame struct {
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	CameraPosition mgl32.Vec3
	CameraTarget   mgl32.Vec3
	Fov            float32
	Lights         []Light
	Items          []DrawItem
	Width, Height  int
}

// Options configura câmera e controles de um Viewport.
type Options struct {
	Fov, Near, Far  float32
	MinDistance     float32
	MaxDistance     float32
	EnableDamping   bool
	DampingFactor   float32
	AutoRotate      bool
	AutoRotateSpeed float32

	Logger *log.Logger
}

// DefaultOptions retorna câmera fov 60 (1..1000) e controles com amortecimento 0.25.
func DefaultOptions() Options {
	return Options{
		Fov:             60,
		Near:            1,
		Far:             1000,
		MinDistance:     10,
		MaxDistance:     500,
		EnableDamping:   true,
		DampingFactor:   0.25,
		AutoRotateSpeed: 2,
	}
}

// Viewport possui uma cena ativa, uma câmera, uma superfície e os controles de órbita.
type Viewport struct {
	state    State
	surface  Surface
	camera   *camera.Perspective
	controls *camera.OrbitControls
	logger   *log.Logger

	width, height int

	groups []*ObjectGroup
	lights []Light
}

// NewViewport cria o viewport e dimensiona a superfície. height deve ser positivo.
func NewViewport(surface Surface, width, height int, opts Options) *Viewport {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	cam := camera.NewPerspective(opts.Fov, aspect, opts.Near, opts.Far)

	controls := camera.NewOrbitControls(cam)
	controls.MinDistance = opts.MinDistance
	controls.MaxDistance = opts.MaxDistance
	controls.EnableDamping = opts.EnableDamping
	controls.DampingFactor = opts.DampingFactor
	controls.AutoRotate = opts.AutoRotate
	controls.AutoRotateSpeed = opts.AutoRotateSpeed

	v := &Viewport{
		state:    Idle,
		surface:  surface,
		camera:   cam,
		controls: controls,
		logger:   logger,
		width:    width,
		height:   height,
	}
	surface.SetSize(width, height)
	return v
}

// Rebuild descarta a cena atual e só então adota groups e lights, renderizando
// em seguida. Nós da cena atual que também vêm na nova são mantidos vivos.
// Os recursos do ResourceCache não são tocados.
func (v *Viewport) Rebuild(groups []*ObjectGroup, lights []Light) {
	if v.state == Disposed {
		v.logger.Println("[Viewport] Rebuild ignorado: viewport descartado")
		return
	}
	for _, g := range groups {
		if g.Disposed() {
			panic(fmt.Sprintf("scene: Rebuild com grupo descartado %q", g.Name))
		}
	}

	v.disposeScene(groups, lights)

	v.groups = append([]*ObjectGroup(nil), groups...)
	v.lights = append([]Light(nil), lights...)
	v.state = Active

	v.Render()
}

// Resize ajusta o aspecto da câmera para width/height, redimensiona a
// superfície e renderiza.
func (v *Viewport) Resize(width, height int) {
	if v.state == Disposed {
		v.logger.Println("[Viewport] Resize ignorado: viewport descartado")
		return
	}
	if height <= 0 || width < 0 {
		v.logger.Printf("[Viewport] Resize ignorado: tamanho inválido %dx%d", width, height)
		return
	}

	v.width, v.height = width, height
	v.camera.Aspect = float32(width) / float32(height)
	v.camera.UpdateProjection()
	v.surface.SetSize(width, height)

	v.Render()
}

// Tick recalcula as matrizes com atualização automática desligada e avança os
// controles um passo quando há amortecimento ou auto-rotação. Não renderiza.
func (v *Viewport) Tick() {
	if v.state == Disposed {
		return
	}

	for _, g := range v.groups {
		if !g.MatrixAutoUpdate {
			g.UpdateMatrix()
		}
		for _, inst := range g.Instances() {
			if !inst.MatrixAutoUpdate {
				inst.UpdateMatrix()
			}
		}
	}

	if v.controls.NeedsUpdate() {
		v.controls.Update()
	}
}

// Render desenha a cena atual na superfície.
func (v *Viewport) Render() {
	if v.state == Disposed {
		v.logger.Println("[Viewport] Render ignorado: viewport descartado")
		return
	}

	frame := &Frame{
		View:           v.camera.View(),
		Projection:     v.camera.Projection(),
		CameraPosition: v.camera.Position,
		CameraTarget:   v.camera.Target,
		Fov:            v.camera.Fov,
		Lights:         v.lights,
		Width:          v.width,
		Height:         v.height,
	}

	for _, g := range v.groups {
		if g.MatrixAutoUpdate {
			g.UpdateMatrix()
		}
		groupMatrix := g.Matrix()
		for _, inst := range g.Instances() {
			if inst.MatrixAutoUpdate {
				inst.UpdateMatrix()
			}
			frame.Items = append(frame.Items, DrawItem{
				Shape:      inst.Shape(),
				Appearance: inst.Appearance(),
				World:      groupMatrix.Mul4(inst.Matrix()),
			})
		}
	}

	v.surface.Draw(frame)
}

// Dispose descarta a cena e a superfície. O viewport não pode ser reutilizado.
func (v *Viewport) Dispose() {
	if v.state == Disposed {
		return
	}
	v.disposeScene(nil, nil)
	v.surface.Dispose()
	v.state = Disposed
}

// disposeScene descarta os nós ativos, exceto os que estão em keepGroups/keepLights.
func (v *Viewport) disposeScene(keepGroups []*ObjectGroup, keepLights []Light) {
	kept := make(map[any]bool, len(keepGroups)+len(keepLights))
	for _, g := range keepGroups {
		kept[g] = true
	}
	for _, l := range keepLights {
		kept[l] = true
	}

	for _, g := range v.groups {
		if !kept[g] {
			g.Dispose()
		}
	}
	for _, l := range v.lights {
		if !kept[l] {
			l.Dispose()
		}
	}
	v.groups = nil
	v.lights = nil
}

// State retorna o estado atual do ciclo de vida.
func (v *Viewport) State() State { return v.state }

// Camera retorna a câmera do viewport.
func (v *Viewport) Camera() *camera.Perspective { return v.camera }

// Controls retorna os controles de órbita.
func (v *Viewport) Controls() *camera.OrbitControls { return v.controls }

// Groups retorna os grupos da cena ativa.
func (v *Viewport) Groups() []*ObjectGroup { return v.groups }

// Lights retorna as luzes da cena ativa.
func (v *Viewport) Lights() []Light { return v.lights }

// Size retorna o tamanho atual da superfície.
func (v *Viewport) Size() (width, height int) { return v.width, v.height }

// InstanceCount retorna o total de instâncias na cena ativa.
func (v *Viewport) InstanceCount() int {
	n := 0
	for _, g := range v.groups {
		n += g.Len()
	}
	return n
}
