package util

import (
	"sort"
	"strconv"
)

type Elem interface {
	Key() string
}

type StringElem string

func (s StringElem) Key() string {
	return string(s)
}

type IntElem int

func (i IntElem) Key() string {
	return strconv.Itoa(int(i))
}

// MultiSet counts elements by key
type MultiSet struct {
	counts map[string]int
	size   int
}

func NewMultiSet(elems ...Elem) *MultiSet {
	m := &MultiSet{counts: make(map[string]int)}
	for _, e := range elems {
		m.Add(e)
	}
	return m
}

func (m *MultiSet) Add(e Elem) {
	m.counts[e.Key()] += 1
	m.size += 1
}

// Count is the multiplicity of the element, 0 if absent
func (m *MultiSet) Count(e Elem) int {
	return m.counts[e.Key()]
}

// Len is the total number of elements, multiplicities included
func (m *MultiSet) Len() int {
	return m.size
}

// Keys in sorted order
func (m *MultiSet) Keys() []string {
	keys := make([]string, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Multiplicities in the order of Keys
func (m *MultiSet) Multiplicities() []int {
	keys := m.Keys()
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = m.counts[k]
	}
	return out
}

func (m *MultiSet) Reset() {
	m.counts = make(map[string]int)
	m.size = 0
}
