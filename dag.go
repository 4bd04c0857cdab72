package folio

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrResourceCycle is returned when a dependency cycle between
	// resources is found. It always indicates a misconfiguration of the
	// resource dependency graph, and means that the ResourceRelationship
	// returned from one of the relation calculators on a resource is
	// problematic.
	ErrResourceCycle = errors.New("resource cycle detected")
)

// orderable is what a resource needs to provide to be placed in a graph.
type orderable[Node any] interface {
	resourceKey() string
	sortRank() int
	explicitlyOrdered() bool
	implicitlyOrdered() bool
	relationTo(context.Context, Node) ResourceRelationship
}

// graph is a directed acyclic graph of resources. It's used to ensure
// ordering constraints of CSS and JS resources are met.
//
// Nodes point to their dependencies and dependencies are always walked
// first; if there's an edge from 1->2, 2 will always appear before 1.
type graph[Node orderable[Node]] struct {
	nodes []Node

	// edgesTo is keyed by the dependency, holding the nodes that depend
	// on it. An edge 1->2 is stored as edgesTo[2][1].
	edgesTo map[int]map[int]struct{}

	// edgesFrom is keyed by the dependent, holding the nodes it depends
	// on. An edge 1->2 is stored as edgesFrom[1][2].
	edgesFrom map[int]map[int]struct{}
}

func newGraph[Node orderable[Node]]() graph[Node] {
	return graph[Node]{
		edgesTo:   map[int]map[int]struct{}{},
		edgesFrom: map[int]map[int]struct{}{},
	}
}

// add appends node to the graph unless a node with the same key is already
// there. It returns the position of the new node, or -1 for duplicates.
func (g *graph[Node]) add(node Node) int {
	key := node.resourceKey()
	if slices.ContainsFunc(g.nodes, func(existing Node) bool {
		return existing.sortRank() == node.sortRank() && existing.resourceKey() == key
	}) {
		return -1
	}
	g.nodes = append(g.nodes, node)
	return len(g.nodes) - 1
}

// dependOn records that the node at pos must be rendered after the node at
// dep.
func (g *graph[Node]) dependOn(pos, dep int) {
	if g.edgesFrom[pos] == nil {
		g.edgesFrom[pos] = map[int]struct{}{}
	}
	if g.edgesTo[dep] == nil {
		g.edgesTo[dep] = map[int]struct{}{}
	}
	g.edgesFrom[pos][dep] = struct{}{}
	g.edgesTo[dep][pos] = struct{}{}
}

// addChain adds the resources a single component declared. Each implicitly
// ordered resource depends on the previous implicitly ordered one, so the
// component's order is preserved.
func (g *graph[Node]) addChain(nodes []Node) {
	last := -1
	for _, node := range nodes {
		pos := g.add(node)
		if pos < 0 || !node.implicitlyOrdered() {
			continue
		}
		if last >= 0 {
			g.dependOn(pos, last)
		}
		last = pos
	}
}

// addExplicitEdges asks every resource with a relation calculator where it
// belongs relative to every other resource in the graph.
func (g *graph[Node]) addExplicitEdges(ctx context.Context) {
	for pos, resource := range g.nodes {
		if !resource.explicitlyOrdered() {
			continue
		}
		for compPos, comparison := range g.nodes {
			if compPos == pos {
				continue
			}
			switch resource.relationTo(ctx, comparison) {
			case ResourceRelationshipAfter:
				g.dependOn(pos, compPos)
			case ResourceRelationshipBefore:
				g.dependOn(compPos, pos)
			case ResourceRelationshipNeutral:
				// no dependency
			}
		}
	}
}

// resourceGraphs is a collection of graphs, one for CSS resources, one for
// JavaScript resources that should be included in the page header, and one for
// JavaScript resources that should be included in the page footer.
type resourceGraphs struct {
	css    graph[cssResource]
	headJS graph[jsResource]
	footJS graph[jsResource]
}

// buildGraphs creates a resourceGraphs containing all the resources that the
// passed components define, with all their dependencies computed.
func buildGraphs(ctx context.Context, components []Component) resourceGraphs {
	result := resourceGraphs{
		css:    newGraph[cssResource](),
		headJS: newGraph[jsResource](),
		footJS: newGraph[jsResource](),
	}
	for _, component := range components {
		if linker, ok := component.(CSSLinker); ok {
			result.css.addChain(toCSSResources(linker.LinkCSS(ctx)))
		}
		if embedder, ok := component.(CSSEmbedder); ok {
			result.css.addChain(toCSSResources(embedder.EmbedCSS(ctx)))
		}
		if linker, ok := component.(JSLinker); ok {
			head, foot := splitJSResources(linker.LinkJS(ctx))
			result.headJS.addChain(head)
			result.footJS.addChain(foot)
		}
		if embedder, ok := component.(JSEmbedder); ok {
			head, foot := splitJSResources(embedder.EmbedJS(ctx))
			result.headJS.addChain(head)
			result.footJS.addChain(foot)
		}
	}
	result.css.addExplicitEdges(ctx)
	result.headJS.addExplicitEdges(ctx)
	result.footJS.addExplicitEdges(ctx)
	return result
}

func toCSSResources[Resource cssResource](in []Resource) []cssResource {
	out := make([]cssResource, 0, len(in))
	for _, res := range in {
		out = append(out, res)
	}
	return out
}

func splitJSResources[Resource jsResource](in []Resource) (head, foot []jsResource) {
	for _, res := range in {
		if res.inFooter() {
			foot = append(foot, res)
		} else {
			head = append(head, res)
		}
	}
	return head, foot
}

// sortNodes orders links before inline resources, then by URL or template
// path, so walking a graph is deterministic.
func sortNodes[Node orderable[Node]](first, second Node) int {
	if first.sortRank() != second.sortRank() {
		return first.sortRank() - second.sortRank()
	}
	return strings.Compare(first.resourceKey(), second.resourceKey())
}

// walkGraph returns the nodes of resources in dependency order. It consumes
// the graph's edges.
func walkGraph[Node orderable[Node]](_ context.Context, resources graph[Node]) ([]Node, error) {
	noParents := make([]int, 0, len(resources.nodes))
	results := make([]Node, 0, len(resources.nodes))
	for pos := range resources.nodes {
		if len(resources.edgesFrom[pos]) < 1 {
			noParents = append(noParents, pos)
		}
	}
	byNode := func(a, b int) int {
		return sortNodes(resources.nodes[a], resources.nodes[b])
	}
	slices.SortFunc(noParents, byNode)
	for len(noParents) > 0 {
		pos := noParents[0]
		noParents = noParents[1:]
		results = append(results, resources.nodes[pos])
		var changed bool
		for child := range resources.edgesTo[pos] {
			delete(resources.edgesFrom[child], pos)
			if len(resources.edgesFrom[child]) < 1 {
				delete(resources.edgesFrom, child)
				noParents = append(noParents, child)
				changed = true
			}
		}
		delete(resources.edgesTo, pos)
		if changed {
			slices.SortFunc(noParents, byNode)
		}
	}
	if len(resources.edgesFrom) > 0 {
		return results, fmt.Errorf("%w: %s", ErrResourceCycle, describeCycle(resources))
	}
	return results, nil
}

func describeCycle[Node orderable[Node]](resources graph[Node]) string {
	var edges, ids []string
	for from, deps := range resources.edgesFrom {
		var vals []string
		for dep := range deps {
			vals = append(vals, strconv.Itoa(dep))
		}
		slices.Sort(vals)
		edges = append(edges, fmt.Sprintf("%d:%s", from, strings.Join(vals, ",")))
	}
	slices.Sort(edges)
	for _, node := range resources.nodes {
		ids = append(ids, fmt.Sprintf("%T(%s)", node, node.resourceKey()))
	}
	return fmt.Sprintf("edges_from=[%s], resources=[%s]", strings.Join(edges, "; "), strings.Join(ids, ", "))
}
