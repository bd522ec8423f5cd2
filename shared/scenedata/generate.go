package scenedata

import (
	"errors"
	"fmt"
	"math"
)

// MaxPoints limita a esfera de contorno gerada por view.
const MaxPoints = 200_000

// ErrTooManyPoints indica uma view cuja cena gerada passaria de MaxPoints.
var ErrTooManyPoints = errors.New("cena gerada grande demais")

// Cores dos eixos X, Y e Z.
var axisColors = [3]uint32{0xff0000, 0x00ff00, 0x0000ff}

// UnitSpherePoints distribui n pontos na superfície da esfera unitária
// pelo método da espiral com ângulo áureo.
func UnitSpherePoints(n int) [][3]float64 {
	if n <= 0 {
		return nil
	}
	dl := math.Pi * (3.0 - math.Sqrt(5.0))
	dz := 2.0 / float64(n)

	l := 0.0
	z := 1.0 - dz/2

	points := make([][3]float64, 0, n)
	for i := 0; i < n; i++ {
		r := math.Sqrt(1.0 - z*z)
		points = append(points, [3]float64{math.Cos(l) * r, math.Sin(l) * r, z})
		z -= dz
		l += dl
	}
	return points
}

// Axes monta o indicador de eixos: um cubo branco na origem e duas esferas
// coloridas ao longo de cada eixo.
func Axes() []Record {
	const r, delta = 1.0, 2.0

	records := []Record{
		{Type: KindCuboid, Color: Color(0xffffff), Scale: []float64{2, 2, 2}, XYZ: []float64{0, 0, 0}},
	}
	for axis := 0; axis < 3; axis++ {
		for i := 0; i < 2; i++ {
			xyz := []float64{0, 0, 0}
			xyz[axis] = float64(1+i) * delta
			records = append(records, Record{
				Type:  KindSphere,
				Color: Color(axisColors[axis]),
				Scale: []float64{r, r, r},
				XYZ:   xyz,
			})
		}
	}
	return records
}

// Boundary monta a esfera de contorno com n pontos brancos de raio 0.2 a 10 unidades da origem.
func Boundary(n int) []Record {
	const r, outerR = 0.2, 10.0

	points := UnitSpherePoints(n)
	records := make([]Record, 0, len(points))
	for _, p := range points {
		records = append(records, Record{
			Type:  KindSphere,
			Color: Color(0xffffff),
			Scale: []float64{r, r, r},
			XYZ:   []float64{p[0] * outerR, p[1] * outerR, p[2] * outerR},
		})
	}
	return records
}

// Generate cria a cena de teste com eixos e uma esfera de contorno de n pontos.
func Generate(n int) *Scene {
	return &Scene{
		Structures: map[string][]Record{
			"axes":     Axes(),
			"boundary": Boundary(n),
		},
	}
}

// PointsForView devolve a densidade da esfera de contorno para um identificador
// de visão: ((id*id)+1)*50, limitada a MaxPoints.
func PointsForView(id int) (int, error) {
	if id < 0 {
		return 0, fmt.Errorf("id de view negativo: %d", id)
	}
	// Testa antes de multiplicar para não estourar o int
	if id > int(math.Sqrt(MaxPoints/50)) {
		return 0, fmt.Errorf("view %d: %w", id, ErrTooManyPoints)
	}
	n := ((id * id) + 1) * 50
	if n > MaxPoints {
		return 0, fmt.Errorf("view %d: %w", id, ErrTooManyPoints)
	}
	return n, nil
}
