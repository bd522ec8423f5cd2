package scene

// ObjectGroup é a coleção ordenada de instâncias de uma estrutura nomeada.
type ObjectGroup struct {
	Transform
	Name string

	instances []*DrawableInstance
	disposed  bool
}

// NewObjectGroup cria um grupo vazio com transformação identidade.
func NewObjectGroup(name string) *ObjectGroup {
	g := &ObjectGroup{Transform: newTransform(), Name: name}
	g.UpdateMatrix()
	return g
}

// Add acrescenta uma instância ao fim do grupo. O grupo passa a ser o dono dela.
func (g *ObjectGroup) Add(inst *DrawableInstance) {
	g.instances = append(g.instances, inst)
}

// Instances retorna as instâncias em ordem de inserção.
func (g *ObjectGroup) Instances() []*DrawableInstance {
	return g.instances
}

// Len retorna o número de instâncias.
func (g *ObjectGroup) Len() int {
	return len(g.instances)
}

// Disposed informa se o grupo já foi descartado.
func (g *ObjectGroup) Disposed() bool { return g.disposed }

// Dispose descarta todas as instâncias do grupo e esvazia a lista.
func (g *ObjectGroup) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	for _, inst := range g.instances {
		inst.Dispose()
	}
	g.instances = nil
}
