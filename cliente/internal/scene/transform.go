package scene

import "github.com/go-gl/mathgl/mgl32"

// Transform guarda posição, rotação (Euler XYZ, radianos) e escala de um nó,
// junto com a matriz local calculada a partir delas.
//
// Com MatrixAutoUpdate a matriz é recalculada a cada Render. Sem ele a matriz
// só muda em UpdateMatrix (chamado por Tick).
type Transform struct {
	Position         mgl32.Vec3
	Rotation         mgl32.Vec3
	Scale            mgl32.Vec3
	MatrixAutoUpdate bool

	matrix mgl32.Mat4
}

func newTransform() Transform {
	return Transform{
		Scale:            mgl32.Vec3{1, 1, 1},
		MatrixAutoUpdate: true,
		matrix:           mgl32.Ident4(),
	}
}

// UpdateMatrix recompõe a matriz local na ordem T * R * S.
func (t *Transform) UpdateMatrix() {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	rotate := mgl32.HomogRotate3DX(t.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())

	t.matrix = translate.Mul4(rotate).Mul4(scale)
}

// Matrix retorna a última matriz local calculada.
func (t *Transform) Matrix() mgl32.Mat4 {
	return t.matrix
}
