// Package scenepb codifica uma scenedata.Scene no formato wire do protobuf.
//
// Esquema equivalente:
//
//	message Scene     { repeated Structure structures = 1; }
//	message Structure { string name = 1; repeated Record records = 2; }
//	message Record    { string type = 1; optional uint32 color = 2;
//	                    repeated double scale = 3; repeated double xyz = 4; }
package scenepb

import (
	"fmt"
	"math"

	"EasyVis/shared/scenedata"

	"google.golang.org/protobuf/encoding/protowire"
)

// ContentType é o media type usado nas respostas HTTP.
const ContentType = "application/x-protobuf"

const (
	fieldSceneStructure = 1

	fieldStructureName   = 1
	fieldStructureRecord = 2

	fieldRecordType  = 1
	fieldRecordColor = 2
	fieldRecordScale = 3
	fieldRecordXYZ   = 4
)

// Marshal serializa a cena. Estruturas saem em ordem alfabética para que a
// mesma cena produza sempre os mesmos bytes.
func Marshal(s *scenedata.Scene) []byte {
	var b []byte
	for _, name := range s.Names() {
		b = protowire.AppendTag(b, fieldSceneStructure, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStructure(name, s.Structures[name]))
	}
	return b
}

func marshalStructure(name string, records []scenedata.Record) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldStructureName, protowire.BytesType)
	b = protowire.AppendString(b, name)
	for _, r := range records {
		b = protowire.AppendTag(b, fieldStructureRecord, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalRecord(r))
	}
	return b
}

func marshalRecord(r scenedata.Record) []byte {
	var b []byte
	if r.Type != "" {
		b = protowire.AppendTag(b, fieldRecordType, protowire.BytesType)
		b = protowire.AppendString(b, r.Type)
	}
	// Cor presente é sempre emitida, inclusive zero (preto).
	if r.Color != nil {
		b = protowire.AppendTag(b, fieldRecordColor, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(*r.Color))
	}
	b = appendPackedDoubles(b, fieldRecordScale, r.Scale)
	b = appendPackedDoubles(b, fieldRecordXYZ, r.XYZ)
	return b
}

func appendPackedDoubles(b []byte, num protowire.Number, vs []float64) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendFixed64(packed, math.Float64bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// Unmarshal lê e valida uma cena. Campos desconhecidos são ignorados.
func Unmarshal(data []byte) (*scenedata.Scene, error) {
	s := &scenedata.Scene{Structures: make(map[string][]scenedata.Record)}

	err := forEachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldSceneStructure || typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		name, records, err := unmarshalStructure(v)
		if err != nil {
			return 0, err
		}
		s.Structures[name] = append(s.Structures[name], records...)
		return n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scenedata.ErrMalformed, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func unmarshalStructure(data []byte) (string, []scenedata.Record, error) {
	var name string
	records := []scenedata.Record{}

	err := forEachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldStructureName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			name = v
			return n, nil
		case num == fieldStructureRecord && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			r, err := unmarshalRecord(v)
			if err != nil {
				return 0, err
			}
			records = append(records, r)
			return n, nil
		}
		return skip(num, typ, b)
	})
	return name, records, err
}

func unmarshalRecord(data []byte) (scenedata.Record, error) {
	var r scenedata.Record

	err := forEachField(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldRecordType && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			r.Type = v
			return n, nil
		case num == fieldRecordColor && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			if v > math.MaxUint32 {
				return 0, fmt.Errorf("cor %d excede uint32", v)
			}
			r.Color = scenedata.Color(uint32(v))
			return n, nil
		case num == fieldRecordScale:
			return consumeDoubles(typ, b, &r.Scale)
		case num == fieldRecordXYZ:
			return consumeDoubles(typ, b, &r.XYZ)
		}
		return skip(num, typ, b)
	})
	return r, err
}

// consumeDoubles aceita tanto a forma empacotada quanto a repetida.
func consumeDoubles(typ protowire.Type, b []byte, out *[]float64) (int, error) {
	switch typ {
	case protowire.BytesType:
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		for len(v) > 0 {
			bits, m := protowire.ConsumeFixed64(v)
			if m < 0 {
				return 0, protowire.ParseError(m)
			}
			*out = append(*out, math.Float64frombits(bits))
			v = v[m:]
		}
		return n, nil
	case protowire.Fixed64Type:
		bits, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		*out = append(*out, math.Float64frombits(bits))
		return n, nil
	}
	return 0, fmt.Errorf("tipo wire %d inválido para double", typ)
}

func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}

// forEachField percorre as tags de uma mensagem; fn consome o valor e devolve quantos bytes leu.
func forEachField(data []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		data = data[m:]
	}
	return nil
}
