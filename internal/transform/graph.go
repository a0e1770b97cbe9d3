package transform

import (
	"sort"

	"github.com/pkg/errors"
)

// Graph é o grafo de dependências entre etapas. A ordem de inserção serve de
// desempate, então a ordem topológica é determinística.
type Graph struct {
	stages []*Stage
	index  map[string]int
}

// NewGraph valida nomes duplicados, dependências desconhecidas e ciclos
func NewGraph(stages ...*Stage) (*Graph, error) {
	g := &Graph{
		stages: stages,
		index:  make(map[string]int, len(stages)),
	}

	for i, stage := range stages {
		if _, dup := g.index[stage.Name]; dup {
			return nil, errors.Wrapf(ErrDuplicateStage, "%q", stage.Name)
		}
		g.index[stage.Name] = i
	}

	for _, stage := range stages {
		for _, dep := range stage.DependsOn {
			if _, ok := g.index[dep]; !ok {
				return nil, errors.Wrapf(ErrUnknownDependency, "%q depends on %q", stage.Name, dep)
			}
		}
	}

	if _, err := g.sort(); err != nil {
		return nil, err
	}

	return g, nil
}

// Stage busca uma etapa pelo nome
func (g *Graph) Stage(name string) (*Stage, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.stages[i], true
}

// Order devolve as etapas em ordem topológica
func (g *Graph) Order() []*Stage {
	order, _ := g.sort()
	return order
}

// sort aplica o algoritmo de Kahn escolhendo sempre a etapa pronta inserida primeiro
func (g *Graph) sort() ([]*Stage, error) {
	inDegree := make([]int, len(g.stages))
	dependents := make([][]int, len(g.stages))

	for i, stage := range g.stages {
		for _, dep := range stage.DependsOn {
			j := g.index[dep]
			inDegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	ready := make([]int, 0, len(g.stages))
	for i, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*Stage, 0, len(g.stages))
	for len(ready) > 0 {
		sort.Ints(ready)
		next := ready[0]
		ready = ready[1:]

		order = append(order, g.stages[next])
		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) != len(g.stages) {
		var stuck []string
		for i, degree := range inDegree {
			if degree > 0 {
				stuck = append(stuck, g.stages[i].Name)
			}
		}
		return nil, errors.Wrapf(ErrCyclicGraph, "stages %v", stuck)
	}

	return order, nil
}
