package render

import (
	"log"

	"EasyVis/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Surface desenha os quadros de um viewport em uma textura fora da tela, que
// depois é composta na janela com DrawAt.
type Surface struct {
	device     *Device
	target     rl.RenderTexture2D
	width      int
	height     int
	ClearColor rl.Color

	props     *PropManager
	LastCount int // Instâncias desenhadas no último quadro
	disposed  bool
}

// NewSurface cria uma superfície sem textura; o tamanho chega em SetSize.
func NewSurface(device *Device, clearAlpha float32) *Surface {
	return &Surface{
		device:     device,
		ClearColor: rl.Fade(rl.Black, clearAlpha),
		props:      NewPropManager(),
	}
}

// SetSize recria a textura de destino quando o tamanho muda.
func (s *Surface) SetSize(width, height int) {
	if s.disposed || width <= 0 || height <= 0 {
		return
	}
	if width == s.width && height == s.height && s.target.ID != 0 {
		return
	}
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.target = rl.LoadRenderTexture(int32(width), int32(height))
	if s.target.ID == 0 {
		panic("render: falha ao alocar render texture")
	}
	s.width, s.height = width, height
}

// Draw desenha o quadro na textura.
func (s *Surface) Draw(frame *scene.Frame) {
	if s.disposed || s.target.ID == 0 {
		return
	}

	s.props.Clear()
	for _, item := range frame.Items {
		s.props.AddItem(item)
	}
	s.LastCount = s.props.Count()

	s.device.setLightUniforms(frame)

	cam := rl.Camera3D{
		Position:   ToVector3(frame.CameraPosition),
		Target:     ToVector3(frame.CameraTarget),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       frame.Fov,
		Projection: rl.CameraPerspective,
	}

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(s.ClearColor)
	rl.BeginMode3D(cam)
	// Near/far da câmera própria em vez dos padrões da Raylib
	rl.SetMatrixProjection(ToMatrix(frame.Projection))
	rl.SetMatrixModelview(ToMatrix(frame.View))
	s.props.DrawAll()
	rl.EndMode3D()
	rl.EndTextureMode()
}

// DrawAt compõe a textura na janela. A textura de render vem invertida em Y.
func (s *Surface) DrawAt(x, y int32) {
	if s.disposed || s.target.ID == 0 {
		return
	}
	src := rl.NewRectangle(0, 0, float32(s.width), -float32(s.height))
	rl.DrawTextureRec(s.target.Texture, src, rl.NewVector2(float32(x), float32(y)), rl.White)
}

// Dispose descarrega a textura de destino.
func (s *Surface) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	if s.target.ID != 0 {
		rl.UnloadRenderTexture(s.target)
		s.target = rl.RenderTexture2D{}
	}
	s.props = NewPropManager()
	log.Printf("[Render] Superfície %dx%d descartada", s.width, s.height)
}
