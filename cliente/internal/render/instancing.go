package render

import (
	"EasyVis/cliente/internal/scene"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type batchKey struct {
	shape      *scene.Shape
	appearance *scene.Appearance
}

// PropBatch agrupa instâncias da mesma geometria e material para desenho instanciado.
type PropBatch struct {
	Mesh       rl.Mesh
	Material   rl.Material
	Transforms []rl.Matrix
}

// Draw desenha todas as instâncias do lote em uma única chamada.
func (b *PropBatch) Draw() {
	count := len(b.Transforms)
	if count == 0 {
		return
	}
	rl.DrawMeshInstanced(b.Mesh, b.Material, b.Transforms, count)
}

// PropManager coordena os lotes de um quadro. Os buffers são reaproveitados
// entre quadros; lotes cujos recursos foram liberados são removidos em Clear.
type PropManager struct {
	Batches map[batchKey]*PropBatch
}

func NewPropManager() *PropManager {
	return &PropManager{
		Batches: make(map[batchKey]*PropBatch),
	}
}

// Clear reseta os buffers sem desalocar memória.
func (pm *PropManager) Clear() {
	for key, b := range pm.Batches {
		if key.shape.Released() || key.appearance.Released() {
			delete(pm.Batches, key)
			continue
		}
		b.Transforms = b.Transforms[:0]
	}
}

// AddItem coloca um item do quadro no lote do seu par geometria+material.
// Itens de instâncias já descartadas são ignorados.
func (pm *PropManager) AddItem(item scene.DrawItem) bool {
	if item.Shape == nil || item.Appearance == nil {
		return false
	}
	mesh, ok := item.Shape.Mesh.(*Mesh)
	if !ok {
		return false
	}
	mtl, ok := item.Appearance.Material.(*Material)
	if !ok {
		return false
	}

	key := batchKey{item.Shape, item.Appearance}
	batch, ok := pm.Batches[key]
	if !ok {
		batch = &PropBatch{
			Mesh:       mesh.Mesh,
			Material:   mtl.Material,
			Transforms: make([]rl.Matrix, 0, 256),
		}
		pm.Batches[key] = batch
	}
	batch.Transforms = append(batch.Transforms, ToMatrix(item.World))
	return true
}

// DrawAll desenha todos os lotes não vazios.
func (pm *PropManager) DrawAll() {
	for _, b := range pm.Batches {
		b.Draw()
	}
}

// Count retorna o total de instâncias enfileiradas.
func (pm *PropManager) Count() int {
	n := 0
	for _, b := range pm.Batches {
		n += len(b.Transforms)
	}
	return n
}
