package maths

import (
	"fmt"
	"strings"
)

// denseMatrix 稠密矩阵实现（行优先切片，全量存储所有元素）
type denseMatrix[T Number] struct {
	rows, cols int
	data       []T
}

// NewDenseMatrix 创建指定维度的空稠密矩阵
func NewDenseMatrix[T Number](rows, cols int) Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("dense matrix: invalid dimension %dx%d", rows, cols))
	}
	return &denseMatrix[T]{
		rows: rows,
		cols: cols,
		data: make([]T, rows*cols),
	}
}

// Rows 返回矩阵行数
func (m *denseMatrix[T]) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *denseMatrix[T]) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *denseMatrix[T]) IsSquare() bool { return m.rows == m.cols }

// String 格式化输出矩阵（逐行输出）
func (m *denseMatrix[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString(fmt.Sprintf("%v\n", m.data[i*m.cols:(i+1)*m.cols]))
	}
	return sb.String()
}

// Get 获取指定行列元素值（越界panic）
func (m *denseMatrix[T]) Get(row, col int) T {
	m.check(row, col)
	return m.data[row*m.cols+col]
}

// Set 设置指定行列元素值（越界panic）
func (m *denseMatrix[T]) Set(row, col int, value T) {
	m.check(row, col)
	m.data[row*m.cols+col] = value
}

// Increment 增量更新矩阵元素（value累加，越界panic）
func (m *denseMatrix[T]) Increment(row, col int, value T) {
	m.check(row, col)
	m.data[row*m.cols+col] += value
}

// GetRow 获取指定行的非零元素（返回：列索引切片+值向量）
func (m *denseMatrix[T]) GetRow(row int) ([]int, Vector[T]) {
	m.check(row, 0)
	var zero T
	cols := []int{}
	values := []T{}
	base := row * m.cols
	for j := 0; j < m.cols; j++ {
		if v := m.data[base+j]; v != zero {
			cols = append(cols, j)
			values = append(values, v)
		}
	}
	return cols, NewDenseVectorWithData(values)
}

// Zero 清空矩阵为零矩阵
func (m *denseMatrix[T]) Zero() {
	var zero T
	for i := range m.data {
		m.data[i] = zero
	}
}

// Copy 复制自身数据到目标矩阵（支持稠密/稀疏等类型）
func (m *denseMatrix[T]) Copy(a Matrix[T]) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("dense matrix copy: dimension mismatch %dx%d != %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	if target, ok := a.(*denseMatrix[T]); ok {
		// 同类型直接复制（高效）
		copy(target.data, m.data)
		return
	}
	// 异类型逐个元素复制（兼容稀疏矩阵）
	a.Zero()
	var zero T
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if v := m.data[i*m.cols+j]; v != zero {
				a.Set(i, j, v)
			}
		}
	}
}

// SwapRows 交换两行
func (m *denseMatrix[T]) SwapRows(row1, row2 int) {
	m.check(row1, 0)
	m.check(row2, 0)
	if row1 == row2 {
		return
	}
	b1, b2 := row1*m.cols, row2*m.cols
	for j := 0; j < m.cols; j++ {
		m.data[b1+j], m.data[b2+j] = m.data[b2+j], m.data[b1+j]
	}
}

// MatrixVectorMultiply 矩阵向量乘法（A*x，返回新向量）
func (m *denseMatrix[T]) MatrixVectorMultiply(x Vector[T]) Vector[T] {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("dense matrix multiply: vector length %d != cols %d", x.Length(), m.cols))
	}
	result := NewDenseVector[T](m.rows)
	for i := 0; i < m.rows; i++ {
		var sum T
		base := i * m.cols
		for j := 0; j < m.cols; j++ {
			sum += m.data[base+j] * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}

// NonZeroCount 统计非零元素数量
func (m *denseMatrix[T]) NonZeroCount() int {
	var zero T
	count := 0
	for _, v := range m.data {
		if v != zero {
			count++
		}
	}
	return count
}

// check 索引合法性校验
func (m *denseMatrix[T]) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("dense matrix: index (%d,%d) out of range %dx%d", row, col, m.rows, m.cols))
	}
}
