package models

// ConfusionMatrix counts answers by guessed category (outer key) against the
// actual category (inner key). Correct answers sit on the diagonal. Every
// matrix in the system is fully populated over all three categories; a cell
// that was never hit holds zero rather than being absent.
type ConfusionMatrix map[Category]map[Category]int

// ZeroMatrix returns a matrix with every cell present and zero.
func ZeroMatrix() ConfusionMatrix {
	m := make(ConfusionMatrix, len(Categories))
	for _, guess := range Categories {
		row := make(map[Category]int, len(Categories))
		for _, actual := range Categories {
			row[actual] = 0
		}
		m[guess] = row
	}
	return m
}

// Clone returns an independent deep copy.
func (m ConfusionMatrix) Clone() ConfusionMatrix {
	out := make(ConfusionMatrix, len(m))
	for guess, row := range m {
		copied := make(map[Category]int, len(row))
		for actual, n := range row {
			copied[actual] = n
		}
		out[guess] = copied
	}
	return out
}

// Increment records one answer.
func (m ConfusionMatrix) Increment(guess, actual Category) {
	if m[guess] == nil {
		m[guess] = make(map[Category]int, len(Categories))
	}
	m[guess][actual]++
}

// Merge returns the cell-wise sum of a and b. Neither input is modified;
// the operation is commutative and associative, so merge order never
// changes the result.
func Merge(a, b ConfusionMatrix) ConfusionMatrix {
	out := ZeroMatrix()
	for guess, row := range a {
		for actual, n := range row {
			out[guess][actual] += n
		}
	}
	for guess, row := range b {
		for actual, n := range row {
			out[guess][actual] += n
		}
	}
	return out
}

// Max returns the largest cell value, floored at 1 so heatmap intensity
// scaling never divides by zero.
func (m ConfusionMatrix) Max() int {
	max := 1
	for _, row := range m {
		for _, n := range row {
			if n > max {
				max = n
			}
		}
	}
	return max
}

// Sum returns the total number of answers recorded.
func (m ConfusionMatrix) Sum() int {
	total := 0
	for _, row := range m {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Diagonal returns the number of correct answers.
func (m ConfusionMatrix) Diagonal() int {
	total := 0
	for _, c := range Categories {
		total += m[c][c]
	}
	return total
}

// wellFormed reports whether the matrix covers exactly the known categories
// with non-negative counts.
func (m ConfusionMatrix) wellFormed() bool {
	if len(m) != len(Categories) {
		return false
	}
	for _, guess := range Categories {
		row, ok := m[guess]
		if !ok || len(row) != len(Categories) {
			return false
		}
		for _, actual := range Categories {
			n, ok := row[actual]
			if !ok || n < 0 {
				return false
			}
		}
	}
	return true
}
