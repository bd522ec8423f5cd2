// Package scenedata define o formato de descrição de cena trocado entre
// servidor e cliente: um mapa de nome de estrutura para uma sequência de
// registros (type, color, scale, xyz).
package scenedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// Tipos de forma suportados pelo visualizador.
const (
	KindSphere = "sphere"
	KindCuboid = "cuboid"
)

// Valores padrão aplicados na normalização.
const (
	DefaultKind  = KindSphere
	DefaultColor = uint32(0xffffff)
	MaxColor     = uint32(0xffffff)
)

// ErrMalformed indica um documento de cena que não pode ser usado.
var ErrMalformed = errors.New("cena malformada")

// Record é um registro como aparece no fio. Todos os campos são opcionais.
type Record struct {
	Type  string    `json:"type,omitempty" yaml:"type,omitempty"`
	Color *uint32   `json:"color,omitempty" yaml:"color,omitempty"`
	Scale []float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	XYZ   []float64 `json:"xyz,omitempty" yaml:"xyz,omitempty"`
}

// Scene é o documento completo: {"structures": {nome: [registros]}}.
type Scene struct {
	Structures map[string][]Record `json:"structures" yaml:"structures"`
}

// Descriptor é um registro normalizado, com os padrões já aplicados.
type Descriptor struct {
	Kind     string
	Color    uint32
	Scale    [3]float32
	Position [3]float32
}

// Color devolve um ponteiro para c, para montar registros com cor explícita.
func Color(c uint32) *uint32 {
	return &c
}

// Validate verifica tuplas de tamanho errado e cores fora de 24 bits.
func (s *Scene) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: documento vazio", ErrMalformed)
	}
	for _, name := range s.Names() {
		for i, r := range s.Structures[name] {
			if err := r.Validate(); err != nil {
				return fmt.Errorf("%w: estrutura %q registro %d: %v", ErrMalformed, name, i, err)
			}
		}
	}
	return nil
}

// Validate verifica um único registro.
func (r Record) Validate() error {
	if len(r.Scale) != 0 && len(r.Scale) != 3 {
		return fmt.Errorf("scale com %d componentes", len(r.Scale))
	}
	if len(r.XYZ) != 0 && len(r.XYZ) != 3 {
		return fmt.Errorf("xyz com %d componentes", len(r.XYZ))
	}
	if r.Color != nil && *r.Color > MaxColor {
		return fmt.Errorf("cor 0x%x fora do intervalo", *r.Color)
	}
	return nil
}

// Normalize aplica os padrões: tipo vazio vira esfera, cor ausente vira branco,
// escala ausente (ou componente zero) vira 1, posição ausente vira a origem.
// Um registro inválido é normalizado mesmo assim; use Validate antes.
func (r Record) Normalize() Descriptor {
	d := Descriptor{
		Kind:  r.Type,
		Color: DefaultColor,
		Scale: [3]float32{1, 1, 1},
	}
	if d.Kind == "" {
		d.Kind = DefaultKind
	}
	if r.Color != nil {
		d.Color = *r.Color & MaxColor
	}
	if len(r.Scale) == 3 {
		for i, v := range r.Scale {
			if v != 0 {
				d.Scale[i] = float32(v)
			}
		}
	}
	if len(r.XYZ) == 3 {
		for i, v := range r.XYZ {
			d.Position[i] = float32(v)
		}
	}
	return d
}

// Names devolve os nomes das estruturas em ordem alfabética.
func (s *Scene) Names() []string {
	names := make([]string, 0, len(s.Structures))
	for name := range s.Structures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors normaliza todas as estruturas, preservando a ordem de cada sequência.
func (s *Scene) Descriptors() map[string][]Descriptor {
	out := make(map[string][]Descriptor, len(s.Structures))
	for name, records := range s.Structures {
		ds := make([]Descriptor, len(records))
		for i, r := range records {
			ds[i] = r.Normalize()
		}
		out[name] = ds
	}
	return out
}

// Count retorna o número total de registros (partículas) da cena.
func (s *Scene) Count() int {
	n := 0
	for _, records := range s.Structures {
		n += len(records)
	}
	return n
}

// DecodeJSON lê e valida um documento JSON.
func DecodeJSON(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if s.Structures == nil {
		s.Structures = make(map[string][]Record)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
