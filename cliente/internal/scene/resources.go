package scene

// Disposable é implementado por tudo que segura estado que precisa ser liberado
// explicitamente (memória de GPU ou estado local de uma instância).
type Disposable interface {
	Dispose()
}

// Device aloca os recursos compartilhados na GPU. Falhas de alocação são fatais
// e devem ser reportadas com panic pela implementação.
type Device interface {
	NewMesh(kind string) Disposable
	NewMaterial(color uint32) Disposable
}

// Shape é a geometria base compartilhada de um tipo de forma.
type Shape struct {
	Kind string
	Mesh Disposable

	released bool
}

// Released informa se a geometria já foi liberada pelo cache.
func (s *Shape) Released() bool { return s.released }

func (s *Shape) release() {
	if s.released {
		return
	}
	s.released = true
	if s.Mesh != nil {
		s.Mesh.Dispose()
	}
}

// Appearance é o material compartilhado de uma cor.
type Appearance struct {
	Color    uint32
	Material Disposable

	released bool
}

// Released informa se o material já foi liberado pelo cache.
func (a *Appearance) Released() bool { return a.released }

func (a *Appearance) release() {
	if a.released {
		return
	}
	a.released = true
	if a.Material != nil {
		a.Material.Dispose()
	}
}
