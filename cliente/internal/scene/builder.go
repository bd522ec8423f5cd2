package scene

import (
	"sort"

	"EasyVis/shared/scenedata"
)

// BuildObjects monta um grupo por estrutura, na ordem de cada sequência.
// As instâncias ficam com MatrixAutoUpdate desligado e a matriz de cada grupo
// é calculada uma vez aqui. Os grupos saem ordenados por nome.
func BuildObjects(structures map[string][]scenedata.Descriptor, cache *ResourceCache) []*ObjectGroup {
	names := make([]string, 0, len(structures))
	for name := range structures {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]*ObjectGroup, 0, len(names))
	for _, name := range names {
		group := NewObjectGroup(name)
		for _, d := range structures[name] {
			inst := cache.Get(d)
			inst.MatrixAutoUpdate = false
			group.Add(inst)
		}
		group.UpdateMatrix()
		groups = append(groups, group)
	}
	return groups
}

// BuildScene normaliza e monta uma cena inteira.
func BuildScene(s *scenedata.Scene, cache *ResourceCache) []*ObjectGroup {
	return BuildObjects(s.Descriptors(), cache)
}

// FindGroup procura um grupo pelo nome.
func FindGroup(groups []*ObjectGroup, name string) *ObjectGroup {
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
