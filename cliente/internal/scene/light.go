package scene

import "github.com/go-gl/mathgl/mgl32"

// Light é uma fonte de iluminação adotada pela cena junto com os grupos.
type Light interface {
	Disposable
	Disposed() bool
}

// AmbientLight ilumina todas as superfícies por igual.
type AmbientLight struct {
	Color     uint32
	Intensity float32

	disposed bool
}

// Dispose marca a luz como descartada.
func (l *AmbientLight) Dispose() { l.disposed = true }

// Disposed informa se a luz já foi descartada.
func (l *AmbientLight) Disposed() bool { return l.disposed }

// DirectionalLight ilumina a partir de Position em direção à origem.
type DirectionalLight struct {
	Color     uint32
	Intensity float32
	Position  mgl32.Vec3

	disposed bool
}

// Dispose marca a luz como descartada.
func (l *DirectionalLight) Dispose() { l.disposed = true }

// Disposed informa se a luz já foi descartada.
func (l *DirectionalLight) Disposed() bool { return l.disposed }

// Direction retorna o vetor normalizado da luz até a origem.
func (l *DirectionalLight) Direction() mgl32.Vec3 {
	if l.Position.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Position.Mul(-1).Normalize()
}

// DefaultLights cria o par usado em todo Rebuild: ambiente 0x999999 e
// direcional branca em (0,10,0). Cada chamada devolve luzes novas, já que o
// viewport descarta as anteriores.
func DefaultLights() []Light {
	return []Light{
		&AmbientLight{Color: 0x999999, Intensity: 1},
		&DirectionalLight{Color: 0xffffff, Intensity: 1, Position: mgl32.Vec3{0, 10, 0}},
	}
}
