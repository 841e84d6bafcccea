package maths

import (
	"fmt"
	"sort"
	"strings"
)

// sparseMatrix 稀疏矩阵实现（按行哈希存储非零元素）
// 导纳矩阵按节点拓扑装配时绝大多数元素为零，稀疏存储避免N²内存开销；
// Gauss-Seidel 迭代按行遍历非零元素，GetRow 是热路径。
type sparseMatrix[T Number] struct {
	rows, cols int
	data       []map[int]T // data[row][col] = 非零元素值
}

// NewSparseMatrix 创建指定维度的空稀疏矩阵
func NewSparseMatrix[T Number](rows, cols int) Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("sparse matrix: invalid dimension %dx%d", rows, cols))
	}
	m := &sparseMatrix[T]{
		rows: rows,
		cols: cols,
		data: make([]map[int]T, rows),
	}
	for i := range m.data {
		m.data[i] = map[int]T{}
	}
	return m
}

// Rows 返回矩阵行数
func (m *sparseMatrix[T]) Rows() int { return m.rows }

// Cols 返回矩阵列数
func (m *sparseMatrix[T]) Cols() int { return m.cols }

// IsSquare 判断是否为方阵
func (m *sparseMatrix[T]) IsSquare() bool { return m.rows == m.cols }

// String 格式化输出矩阵（仅输出非零元素）
func (m *sparseMatrix[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		cols, values := m.GetRow(i)
		for idx, j := range cols {
			sb.WriteString(fmt.Sprintf("(%d,%d)=%v ", i, j, values.Get(idx)))
		}
	}
	return sb.String()
}

// Get 获取指定行列元素值（不存在返回零，越界panic）
func (m *sparseMatrix[T]) Get(row, col int) T {
	m.check(row, col)
	return m.data[row][col]
}

// Set 设置指定行列元素值（接近零的值删除元素，维持稀疏性）
func (m *sparseMatrix[T]) Set(row, col int, value T) {
	m.check(row, col)
	if Abs(value) < Epsilon {
		delete(m.data[row], col)
		return
	}
	m.data[row][col] = value
}

// Increment 增量更新矩阵元素（value累加）
func (m *sparseMatrix[T]) Increment(row, col int, value T) {
	m.check(row, col)
	m.Set(row, col, m.data[row][col]+value)
}

// GetRow 获取指定行的非零元素（返回：升序列索引切片+值向量）
func (m *sparseMatrix[T]) GetRow(row int) ([]int, Vector[T]) {
	m.check(row, 0)
	cols := make([]int, 0, len(m.data[row]))
	for j := range m.data[row] {
		cols = append(cols, j)
	}
	// 列索引排序保证遍历顺序确定（结果可复现的前提）
	sort.Ints(cols)
	values := make([]T, len(cols))
	for idx, j := range cols {
		values[idx] = m.data[row][j]
	}
	return cols, NewDenseVectorWithData(values)
}

// Zero 清空矩阵为零矩阵
func (m *sparseMatrix[T]) Zero() {
	for i := range m.data {
		m.data[i] = map[int]T{}
	}
}

// Copy 复制自身数据到目标矩阵
func (m *sparseMatrix[T]) Copy(a Matrix[T]) {
	if a.Rows() != m.rows || a.Cols() != m.cols {
		panic(fmt.Sprintf("sparse matrix copy: dimension mismatch %dx%d != %dx%d", m.rows, m.cols, a.Rows(), a.Cols()))
	}
	a.Zero()
	for i := 0; i < m.rows; i++ {
		cols, values := m.GetRow(i)
		for idx, j := range cols {
			a.Set(i, j, values.Get(idx))
		}
	}
}

// SwapRows 交换两行
func (m *sparseMatrix[T]) SwapRows(row1, row2 int) {
	m.check(row1, 0)
	m.check(row2, 0)
	m.data[row1], m.data[row2] = m.data[row2], m.data[row1]
}

// MatrixVectorMultiply 矩阵向量乘法（仅遍历非零元素）
func (m *sparseMatrix[T]) MatrixVectorMultiply(x Vector[T]) Vector[T] {
	if x.Length() != m.cols {
		panic(fmt.Sprintf("sparse matrix multiply: vector length %d != cols %d", x.Length(), m.cols))
	}
	result := NewDenseVector[T](m.rows)
	for i := 0; i < m.rows; i++ {
		var sum T
		cols, values := m.GetRow(i)
		for idx, j := range cols {
			sum += values.Get(idx) * x.Get(j)
		}
		result.Set(i, sum)
	}
	return result
}

// NonZeroCount 统计非零元素数量
func (m *sparseMatrix[T]) NonZeroCount() int {
	count := 0
	for i := range m.data {
		count += len(m.data[i])
	}
	return count
}

// check 索引合法性校验
func (m *sparseMatrix[T]) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("sparse matrix: index (%d,%d) out of range %dx%d", row, col, m.rows, m.cols))
	}
}
