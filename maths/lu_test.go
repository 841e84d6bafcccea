package maths

import (
	"math/rand"
	"testing"
)

// TestLuDenseSolve 函数验证了针对实数矩阵的 LU 分解和求解过程的正确性。
func TestLuDenseSolve(t *testing.T) {
	// 求解线性方程组 Ax = b
	// A = [[2, 3, 1],
	//      [1, 2, 3],
	//      [3, 1, 2]]
	// b = [9, 6, 8]
	// 预期解 x = [35/18, 29/18, 5/18]
	a := NewDenseMatrix[float64](3, 3)
	a.Set(0, 0, 2)
	a.Set(0, 1, 3)
	a.Set(0, 2, 1)
	a.Set(1, 0, 1)
	a.Set(1, 1, 2)
	a.Set(1, 2, 3)
	a.Set(2, 0, 3)
	a.Set(2, 1, 1)
	a.Set(2, 2, 2)

	b := NewDenseVector[float64](3)
	b.Set(0, 9)
	b.Set(1, 6)
	b.Set(2, 8)

	lu, err := NewLU[float64](3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err = lu.Decompose(a); err != nil {
		t.Fatalf("Decomposition failed: %v", err)
	}

	x := NewDenseVector[float64](3)
	if err = lu.SolveReuse(b, x); err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	// 验证结果
	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	tolerance := 1e-9
	for i := 0; i < 3; i++ {
		if Abs(x.Get(i)-expected[i]) > tolerance {
			t.Errorf("Element x[%d] is incorrect. Got %f, expected %f", i, x.Get(i), expected[i])
		}
	}

	// 残差验证: r = A·x − b，最大残差接近机器精度
	r := a.MatrixVectorMultiply(x)
	for i := 0; i < 3; i++ {
		r.Increment(i, -b.Get(i))
	}
	if res := r.MaxAbs(); res > 1e-12 {
		t.Errorf("Residual too large: %e", res)
	}
}

// TestLuDenseSolveComplex 函数验证了针对复数矩阵的 LU 分解和求解过程的正确性。
// 导纳矩阵求解走的就是这条复数路径。
func TestLuDenseSolveComplex(t *testing.T) {
	// 求解复数线性方程组 Ax = b
	// A = [[1+2i, 2+3i],
	//      [3+4i, 4+5i]]
	// b = [6+7i, 12+13i]
	// 预期解 x = [1+i, 2-i]
	a := NewDenseMatrix[complex128](2, 2)
	a.Set(0, 0, 1+2i)
	a.Set(0, 1, 2+3i)
	a.Set(1, 0, 3+4i)
	a.Set(1, 1, 4+5i)

	b := NewDenseVector[complex128](2)
	b.Set(0, 6+7i)
	b.Set(1, 12+13i)

	lu, err := NewLU[complex128](2)
	if err != nil {
		t.Fatalf("NewLU failed for complex: %v", err)
	}
	if err = lu.Decompose(a); err != nil {
		t.Fatalf("Decomposition failed for complex: %v", err)
	}

	x := NewDenseVector[complex128](2)
	if err = lu.SolveReuse(b, x); err != nil {
		t.Fatalf("Solve failed for complex: %v", err)
	}

	expected := []complex128{1 + 1i, 2 - 1i}
	tolerance := 1e-9
	for i := 0; i < 2; i++ {
		// 使用 Abs 计算复数差的模
		if Abs(x.Get(i)-expected[i]) > tolerance {
			t.Errorf("Element x[%d] is incorrect. Got %v, expected %v", i, x.Get(i), expected[i])
		}
	}
}

// TestLuDenseSingular 函数验证 Decompose 方法能否正确识别奇异矩阵。
func TestLuDenseSingular(t *testing.T) {
	// A 是一个奇异矩阵（有一行全为零）
	a := NewDenseMatrix[float64](3, 3)
	a.Set(0, 0, 1)
	a.Set(0, 1, 2)
	a.Set(0, 2, 3)
	a.Set(1, 0, 4)
	a.Set(1, 1, 5)
	a.Set(1, 2, 6)

	lu, err := NewLU[float64](3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	// 对奇异矩阵进行分解，预期会返回错误
	if err = lu.Decompose(a); err == nil {
		t.Fatalf("Decompose should have failed for a singular matrix but it did not")
	}
}

// TestLuInverseComplex 验证复数矩阵求逆（Z-bus 路径）：A * A^-1 应为单位矩阵。
func TestLuInverseComplex(t *testing.T) {
	a := NewDenseMatrix[complex128](3, 3)
	a.Set(0, 0, 4+1i)
	a.Set(0, 1, -1-0.5i)
	a.Set(1, 0, -1-0.5i)
	a.Set(1, 1, 3+2i)
	a.Set(1, 2, -0.5-0.25i)
	a.Set(2, 1, -0.5-0.25i)
	a.Set(2, 2, 2+1i)

	lu, err := NewLU[complex128](3)
	if err != nil {
		t.Fatalf("NewLU failed: %v", err)
	}
	if err = lu.Decompose(a); err != nil {
		t.Fatalf("Decomposition failed: %v", err)
	}
	inv, err := lu.Inverse()
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	// 验证 A * A^-1 = I
	tolerance := 1e-9
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum complex128
			for k := 0; k < 3; k++ {
				sum += a.Get(i, k) * inv.Get(k, j)
			}
			var expected complex128
			if i == j {
				expected = 1
			}
			if Abs(sum-expected) > tolerance {
				t.Errorf("(A*A^-1)[%d][%d] = %v, expected %v", i, j, sum, expected)
			}
		}
	}
}

// TestLuSparseInput 验证稀疏矩阵作为分解输入的一致性（与稠密输入结果相同）。
func TestLuSparseInput(t *testing.T) {
	dense := NewDenseMatrix[float64](3, 3)
	sparse := NewSparseMatrix[float64](3, 3)
	for _, e := range []struct {
		i, j int
		v    float64
	}{{0, 0, 5}, {0, 1, -1}, {1, 0, -1}, {1, 1, 4}, {1, 2, -2}, {2, 1, -2}, {2, 2, 6}} {
		dense.Set(e.i, e.j, e.v)
		sparse.Set(e.i, e.j, e.v)
	}
	b := NewDenseVector[float64](3)
	b.BuildFromDense([]float64{1, 2, 3})

	solve := func(m Matrix[float64]) []float64 {
		lu, err := NewLU[float64](3)
		if err != nil {
			t.Fatalf("NewLU failed: %v", err)
		}
		if err = lu.Decompose(m); err != nil {
			t.Fatalf("Decomposition failed: %v", err)
		}
		x := NewDenseVector[float64](3)
		if err = lu.SolveReuse(b, x); err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		return x.ToDense()
	}

	xd := solve(dense)
	xs := solve(sparse)
	for i := range xd {
		if Abs(xd[i]-xs[i]) > 1e-12 {
			t.Errorf("dense/sparse solution mismatch at %d: %v != %v", i, xd[i], xs[i])
		}
	}
}

// BenchmarkLuDenseDecompose 测试对稠密矩阵进行 LU 分解的性能。
func BenchmarkLuDenseDecompose(b *testing.B) {
	size := 100
	m := NewDenseMatrix[float64](size, size)
	// 填充随机数据以避免对零矩阵的特殊优化
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			m.Set(i, j, rand.Float64())
		}
	}
	// 通过增加对角线元素的值来确保矩阵非奇异
	for i := 0; i < size; i++ {
		m.Set(i, i, m.Get(i, i)+1)
	}
	lu, err := NewLU[float64](size)
	if err != nil {
		b.Fatalf("NewLU failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := lu.Decompose(m); err != nil {
			b.Fatalf("Decomposition failed during benchmark: %v", err)
		}
	}
}
