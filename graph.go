package loom

// importGraph is the static view of the declared imports of all bound
// definitions. It only sees dependencies declared through Imports or
// WithImports; tokens a creator resolves ad hoc are invisible here and are
// covered by the per-request monitor instead.
type importGraph struct {
	nodes    map[*tokenHandle]*graphNode
	order    []AnyToken
	pathKeep int
}

type graphNode struct {
	tok     AnyToken
	imports []Definition
}

func newImportGraph(pathKeep int) *importGraph {
	return &importGraph{
		nodes:    make(map[*tokenHandle]*graphNode),
		pathKeep: pathKeep,
	}
}

// addNode records a bound token and its declared imports. Insertion order is
// preserved so nodes without imports sort in registration order.
func (g *importGraph) addNode(tok AnyToken, imports []Definition) {
	g.nodes[tok.handle()] = &graphNode{tok: tok, imports: imports}
	g.order = append(g.order, tok)
}

// validate reports the first missing binding or static cycle.
func (g *importGraph) validate() error {
	for _, tok := range g.order {
		for _, imp := range g.nodes[tok.handle()].imports {
			if _, ok := g.nodes[imp.Token().handle()]; !ok {
				path := renderPath([]AnyToken{tok, imp.Token()}, g.pathKeep)

				return newBindingNotFound(imp.Token(), "", path)
			}
		}
	}

	_, err := g.topologicalSort()

	return err
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// topologicalSort returns the tokens ordered so every declared import
// precedes its dependents. Nodes without imports keep insertion order.
func (g *importGraph) topologicalSort() ([]AnyToken, error) {
	states := make(map[*tokenHandle]visitState)
	result := make([]AnyToken, 0, len(g.order))

	for _, tok := range g.order {
		if err := g.visit(tok, states, nil, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit walks the graph depth-first with an explicit stack for cycle paths.
func (g *importGraph) visit(tok AnyToken, states map[*tokenHandle]visitState, stack []AnyToken, result *[]AnyToken) error {
	switch states[tok.handle()] {
	case visited:
		return nil
	case visiting:
		path := renderPath(append(stack, tok), g.pathKeep)

		return newCircularDependency(tok, "", path)
	}

	node, ok := g.nodes[tok.handle()]
	if !ok {
		// Imports of unbound tokens are reported by validate; the sort
		// itself tolerates them.
		return nil
	}

	states[tok.handle()] = visiting
	stack = append(stack, tok)

	for _, imp := range node.imports {
		if err := g.visit(imp.Token(), states, stack, result); err != nil {
			return err
		}
	}

	states[tok.handle()] = visited
	*result = append(*result, tok)

	return nil
}
