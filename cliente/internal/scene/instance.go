package scene

// DrawableInstance posiciona um par Shape+Appearance na cena. Cada instância é
// exclusiva do grupo que a contém; os recursos que ela referencia não.
type DrawableInstance struct {
	Transform

	shape      *Shape
	appearance *Appearance
	disposed   bool
}

func newDrawableInstance(shape *Shape, appearance *Appearance) *DrawableInstance {
	return &DrawableInstance{
		Transform:  newTransform(),
		shape:      shape,
		appearance: appearance,
	}
}

// Shape retorna a geometria compartilhada (nil depois de Dispose).
func (i *DrawableInstance) Shape() *Shape { return i.shape }

// Appearance retorna o material compartilhado (nil depois de Dispose).
func (i *DrawableInstance) Appearance() *Appearance { return i.appearance }

// Disposed informa se a instância já foi descartada.
func (i *DrawableInstance) Disposed() bool { return i.disposed }

// Dispose libera apenas o estado local: as referências aos recursos
// compartilhados são soltas, os recursos em si continuam no cache.
func (i *DrawableInstance) Dispose() {
	if i.disposed {
		return
	}
	i.disposed = true
	i.shape = nil
	i.appearance = nil
}
