package scene

import (
	"log"

	"EasyVis/shared/scenedata"

	"github.com/go-gl/mathgl/mgl32"
)

// supportedKinds são criados na construção do cache e nunca recriados.
var supportedKinds = []string{scenedata.KindSphere, scenedata.KindCuboid}

// ResourceCache entrega instâncias que compartilham geometria por tipo e
// material por cor. Um cache por contexto de renderização; não é seguro para
// uso concorrente.
type ResourceCache struct {
	device      Device
	logger      *log.Logger
	shapes      map[string]*Shape
	appearances map[uint32]*Appearance
	released    bool
}

// NewResourceCache cria o cache e já aloca as geometrias de todos os tipos
// suportados. logger pode ser nil.
func NewResourceCache(device Device, logger *log.Logger) *ResourceCache {
	if logger == nil {
		logger = log.Default()
	}
	c := &ResourceCache{
		device:      device,
		logger:      logger,
		shapes:      make(map[string]*Shape, len(supportedKinds)),
		appearances: make(map[uint32]*Appearance),
	}
	for _, kind := range supportedKinds {
		c.shapes[kind] = &Shape{Kind: kind, Mesh: device.NewMesh(kind)}
	}
	return c
}

// Get devolve uma nova instância para o descritor. Tipos desconhecidos caem
// para a esfera com um aviso no log.
func (c *ResourceCache) Get(d scenedata.Descriptor) *DrawableInstance {
	c.mustBeLive()

	shape := c.shapeFor(d.Kind)
	appearance := c.Appearance(d.Color)

	inst := newDrawableInstance(shape, appearance)
	inst.Position = mgl32.Vec3(d.Position)
	inst.Scale = mgl32.Vec3(d.Scale)
	inst.UpdateMatrix()
	return inst
}

// GetSphere é um atalho para uma esfera de raio r.
func (c *ResourceCache) GetSphere(color uint32, r float32, pos mgl32.Vec3) *DrawableInstance {
	return c.Get(scenedata.Descriptor{
		Kind:     scenedata.KindSphere,
		Color:    color,
		Scale:    [3]float32{r, r, r},
		Position: pos,
	})
}

// GetCuboid é um atalho para um paralelepípedo com as dimensões de size.
func (c *ResourceCache) GetCuboid(color uint32, size, pos mgl32.Vec3) *DrawableInstance {
	return c.Get(scenedata.Descriptor{
		Kind:     scenedata.KindCuboid,
		Color:    color,
		Scale:    size,
		Position: pos,
	})
}

// Shape retorna a geometria de um tipo suportado, ou nil.
func (c *ResourceCache) Shape(kind string) *Shape {
	return c.shapes[kind]
}

// Appearance retorna o material da cor, criando-o no primeiro uso.
func (c *ResourceCache) Appearance(color uint32) *Appearance {
	c.mustBeLive()

	if a, ok := c.appearances[color]; ok {
		return a
	}
	a := &Appearance{Color: color, Material: c.device.NewMaterial(color)}
	c.appearances[color] = a
	return a
}

// AppearanceCount retorna quantas cores distintas já foram vistas.
func (c *ResourceCache) AppearanceCount() int {
	return len(c.appearances)
}

// Released informa se o cache já foi liberado.
func (c *ResourceCache) Released() bool { return c.released }

// Release libera todos os recursos compartilhados uma única vez. Depois disso
// o cache não pode mais ser usado.
func (c *ResourceCache) Release() {
	if c.released {
		return
	}
	c.released = true

	for _, a := range c.appearances {
		a.release()
	}
	for _, s := range c.shapes {
		s.release()
	}
	c.logger.Printf("[Cache] Liberados %d materiais e %d geometrias", len(c.appearances), len(c.shapes))
}

func (c *ResourceCache) shapeFor(kind string) *Shape {
	if kind == "" {
		return c.shapes[scenedata.KindSphere]
	}
	if s, ok := c.shapes[kind]; ok {
		return s
	}
	c.logger.Printf("[Cache] Tipo de geometria não suportado %q; usando %s", kind, scenedata.KindSphere)
	return c.shapes[scenedata.KindSphere]
}

func (c *ResourceCache) mustBeLive() {
	if c.released {
		panic("scene: ResourceCache usado depois de Release")
	}
}
