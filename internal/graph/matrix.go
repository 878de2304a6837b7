// Package graph holds the state of the complete node graph: the per-edge
// inertia and rewire-weight matrices, the agent position, heat, and the last
// computed policy over nodes.
package graph

// Matrix is a square matrix stored as one contiguous row-major buffer.
// Entry (i, j) lives at index i*N + j.
type Matrix struct {
	n    int
	data []float64
}

// NewMatrix allocates an n×n matrix of zeros.
func NewMatrix(n int) Matrix {
	return Matrix{n: n, data: make([]float64, n*n)}
}

// N returns the side length.
func (m Matrix) N() int {
	return m.n
}

// At returns entry (i, j).
func (m Matrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Set assigns entry (i, j).
func (m Matrix) Set(i, j int, v float64) {
	m.data[i*m.n+j] = v
}

// Add increments entry (i, j) by d.
func (m Matrix) Add(i, j int, d float64) {
	m.data[i*m.n+j] += d
}

// Flat exposes the underlying buffer. Writes through it mutate the matrix.
func (m Matrix) Flat() []float64 {
	return m.data
}

// Row returns a view of row i. Writes through it mutate the matrix.
func (m Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Mean returns the arithmetic mean of all entries, or 0 for an empty matrix.
func (m Matrix) Mean() float64 {
	if len(m.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.data {
		sum += v
	}
	return sum / float64(len(m.data))
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return Matrix{n: m.n, data: data}
}
