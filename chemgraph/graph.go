/*
 * graph.go, part of omm-cphmd.
 *
 * Copyright 2025 The omm-cphmd authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemgraph puts the bonds of a topology in a gonum graph, so the
// gonum traversal and path tools can be used on it.
package chemgraph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// Atom is a graph node. Its ID is the atom index.
type Atom int

func (A Atom) ID() int64 {
	return int64(A)
}

// Bond is an undirected edge between two atoms.
type Bond struct {
	At1, At2 Atom
}

func (B Bond) From() graph.Node {
	return B.At1
}

func (B Bond) To() graph.Node {
	return B.At2
}

// bonds are not directional, so the reversed edge is just the same bond
// with the ends switched.
func (B Bond) ReversedEdge() graph.Edge {
	return Bond{At1: B.At2, At2: B.At1}
}

// Graph implements the gonum graph.Graph and graph.Undirected interfaces
// for a set of atoms with indexes 0..Len()-1.
type Graph struct {
	neigh [][]int
}

// New returns the graph of natoms atoms joined by the given bonds. Repeated
// bonds are only added once, bonds from an atom to itself are ignored.
func New(natoms int, bonds [][2]int) (*Graph, error) {
	G := &Graph{neigh: make([][]int, natoms)}
	for n, b := range bonds {
		i, j := b[0], b[1]
		if i < 0 || j < 0 || i >= natoms || j >= natoms {
			return nil, fmt.Errorf("New: bond %d (%d-%d) out of range for %d atoms", n, i, j, natoms)
		}
		if i == j || G.bonded(i, j) {
			continue
		}
		G.neigh[i] = append(G.neigh[i], j)
		G.neigh[j] = append(G.neigh[j], i)
	}
	for _, v := range G.neigh {
		sort.Ints(v)
	}
	return G, nil
}

func (G *Graph) bonded(i, j int) bool {
	for _, v := range G.neigh[i] {
		if v == j {
			return true
		}
	}
	return false
}

func (G *Graph) has(id int64) bool {
	return id >= 0 && id < int64(len(G.neigh))
}

// Len returns the number of atoms in the graph.
func (G *Graph) Len() int {
	return len(G.neigh)
}

// Neighbors returns the indexes of the atoms bonded to atom i, in
// increasing order.
func (G *Graph) Neighbors(i int) []int {
	if !G.has(int64(i)) {
		return nil
	}
	ret := make([]int, len(G.neigh[i]))
	copy(ret, G.neigh[i])
	return ret
}

func (G *Graph) Node(id int64) graph.Node {
	if !G.has(id) {
		return nil
	}
	return Atom(id)
}

func (G *Graph) Nodes() graph.Nodes {
	if len(G.neigh) == 0 {
		return graph.Empty
	}
	nodes := make([]graph.Node, len(G.neigh))
	for i := range nodes {
		nodes[i] = Atom(i)
	}
	return iterator.NewOrderedNodes(nodes)
}

func (G *Graph) From(id int64) graph.Nodes {
	if !G.has(id) || len(G.neigh[id]) == 0 {
		return graph.Empty
	}
	nodes := make([]graph.Node, len(G.neigh[id]))
	for i, v := range G.neigh[id] {
		nodes[i] = Atom(v)
	}
	return iterator.NewOrderedNodes(nodes)
}

func (G *Graph) HasEdgeBetween(xid, yid int64) bool {
	if !G.has(xid) || !G.has(yid) {
		return false
	}
	return G.bonded(int(xid), int(yid))
}

func (G *Graph) Edge(uid, vid int64) graph.Edge {
	return G.EdgeBetween(uid, vid)
}

func (G *Graph) EdgeBetween(xid, yid int64) graph.Edge {
	if !G.HasEdgeBetween(xid, yid) {
		return nil
	}
	return Bond{At1: Atom(xid), At2: Atom(yid)}
}

// Within returns, in increasing order, the atoms that are between 1 and
// depth bonds away from atom i, following the shortest path.
func (G *Graph) Within(i, depth int) []int {
	if !G.has(int64(i)) || depth < 1 {
		return nil
	}
	ret := make([]int, 0, len(G.neigh[i])*depth)
	var bf traverse.BreadthFirst
	bf.Walk(G, Atom(i), func(n graph.Node, d int) bool {
		if d > depth {
			return true
		}
		if d > 0 {
			ret = append(ret, int(n.ID()))
		}
		return false
	})
	sort.Ints(ret)
	return ret
}

// Components returns the sets of atoms that are connected to each other
// by bonds (i.e. molecules), each sorted, ordered by their lowest atom.
func (G *Graph) Components() [][]int {
	cc := topo.ConnectedComponents(G)
	ret := make([][]int, 0, len(cc))
	for _, c := range cc {
		m := make([]int, len(c))
		for i, n := range c {
			m[i] = int(n.ID())
		}
		sort.Ints(m)
		ret = append(ret, m)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i][0] < ret[j][0] })
	return ret
}
