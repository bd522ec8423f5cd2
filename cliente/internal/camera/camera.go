package camera

import (
	"math"

	"EasyVis/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective é uma câmera de projeção perspectiva olhando para um alvo.
type Perspective struct {
	Fov    float32 // Campo de visão vertical, em graus
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective cria uma câmera em (10,10,10) olhando para a origem.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		Fov:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: mgl32.Vec3{10, 10, 10},
		Up:       mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// UpdateProjection recalcula a matriz de projeção. Deve ser chamado depois de
// alterar Fov, Aspect, Near ou Far.
func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

// Projection retorna a última projeção calculada.
func (c *Perspective) Projection() mgl32.Mat4 {
	return c.projection
}

// View retorna a matriz de visão atual.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// minPolarEps evita os polos, onde LookAt degenera.
const minPolarEps = 1e-6

// OrbitControls gira a câmera em órbita ao redor de Target.
// Com EnableDamping ou AutoRotate, Update precisa ser chamado a cada frame.
type OrbitControls struct {
	Camera *Perspective
	Target mgl32.Vec3

	MinDistance   float32
	MaxDistance   float32
	MinPolarAngle float32 // Radianos a partir do eixo +Y
	MaxPolarAngle float32

	EnableDamping   bool
	DampingFactor   float32 // 0.0 a 1.0 (quanto menor, mais inércia)
	AutoRotate      bool
	AutoRotateSpeed float32 // 2.0 = uma volta a cada 30s a 60 FPS

	// OnChange é chamado quando Update move a câmera.
	OnChange func()

	// Deltas pendentes (aplicados e amortecidos em Update)
	deltaTheta float32
	deltaPhi   float32
	scale      float32
}

// NewOrbitControls cria controles com os padrões do visualizador:
// amortecimento 0.25, distância entre 10 e 500, ângulo polar até π.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	return &OrbitControls{
		Camera:          cam,
		Target:          cam.Target,
		MinDistance:     10,
		MaxDistance:     500,
		MinPolarAngle:   0,
		MaxPolarAngle:   math.Pi,
		EnableDamping:   true,
		DampingFactor:   0.25,
		AutoRotateSpeed: 2.0,
		scale:           1,
	}
}

// NeedsUpdate informa se o estado avança sozinho (amortecimento ou auto-rotação).
func (o *OrbitControls) NeedsUpdate() bool {
	return o.EnableDamping || o.AutoRotate
}

// Rotate acumula uma rotação azimutal e polar, em radianos.
func (o *OrbitControls) Rotate(dAzimuth, dPolar float32) {
	o.deltaTheta -= dAzimuth
	o.deltaPhi -= dPolar
}

// Zoom multiplica a distância ao alvo por factor (< 1 aproxima).
func (o *OrbitControls) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	o.scale *= factor
}

// Distance retorna a distância atual entre câmera e alvo.
func (o *OrbitControls) Distance() float32 {
	return o.Camera.Position.Sub(o.Target).Len()
}

// Update aplica um passo dos deltas pendentes. Retorna true se a câmera se moveu.
func (o *OrbitControls) Update() bool {
	offset := o.Camera.Position.Sub(o.Target)
	radius := offset.Len()
	var theta, phi float32
	if radius > 0 {
		theta = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
		phi = float32(math.Acos(float64(util.Clamp(offset.Y()/radius, -1, 1))))
	}

	if o.AutoRotate {
		o.deltaTheta -= 2 * math.Pi / 60 / 60 * o.AutoRotateSpeed
	}

	if o.EnableDamping {
		theta += o.deltaTheta * o.DampingFactor
		phi += o.deltaPhi * o.DampingFactor
	} else {
		theta += o.deltaTheta
		phi += o.deltaPhi
	}

	phi = util.Clamp(phi, o.MinPolarAngle, o.MaxPolarAngle)
	phi = util.Clamp(phi, minPolarEps, math.Pi-minPolarEps)

	radius = util.Clamp(radius*o.scale, o.MinDistance, o.MaxDistance)

	sinPhi := float32(math.Sin(float64(phi)))
	next := o.Target.Add(mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	})

	if o.EnableDamping {
		o.deltaTheta = util.Lerp(o.deltaTheta, 0, o.DampingFactor)
		o.deltaPhi = util.Lerp(o.deltaPhi, 0, o.DampingFactor)
	} else {
		o.deltaTheta = 0
		o.deltaPhi = 0
	}
	o.scale = 1

	moved := next.Sub(o.Camera.Position).LenSqr() > 1e-6
	o.Camera.Position = next
	o.Camera.Target = o.Target
	if moved && o.OnChange != nil {
		o.OnChange()
	}
	return moved
}
