package maths

import (
	"math"
	"math/cmplx"
)

// 浮点精度阈值（奇异判断、稀疏元素删除共用）
const Epsilon = 1e-16

// Number 是一个约束，允许浮点或复数类型。
// 潮流计算的雅可比系统使用 float64，导纳/阻抗矩阵使用 complex128。
type Number interface {
	~float64 | ~complex128
}

// Abs 是一个泛型函数，返回任何支持的 Number 类型的绝对值（复数取模）。
func Abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float64:
		return math.Abs(x)
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

// 向量接口定义
type Vector[T Number] interface {
	// 基础属性方法
	Length() int    // 获取向量长度
	String() string // 格式化字符串输出

	// 数据访问方法
	Get(index int) T              // 获取指定索引元素值
	Set(index int, value T)       // 设置指定索引元素值
	Increment(index int, value T) // 增量更新元素（value累加）

	// 数据操作和转换方法
	ToDense() []T             // 转换为稠密切片（副本）
	BuildFromDense(dense []T) // 从稠密切片构建向量

	// 数据修改方法
	Zero()            // 清空向量为零向量
	Copy(a Vector[T]) // 复制自身数据到目标向量a

	// 统计方法
	MaxAbs() float64 // 获取向量元素绝对值的最大值
}

// 矩阵接口定义
type Matrix[T Number] interface {
	// 基础属性方法
	Rows() int      // 获取矩阵行数
	Cols() int      // 获取矩阵列数
	IsSquare() bool // 判断是否为方阵（行数=列数）
	String() string // 格式化字符串输出

	// 数据访问方法
	Get(row, col int) T                // 获取指定行列元素值
	Set(row, col int, value T)         // 设置指定行列元素值
	Increment(row, col int, value T)   // 增量更新元素
	GetRow(row int) ([]int, Vector[T]) // 获取指定行非零元素（列索引升序+值向量）

	// 数据修改方法
	Zero()                   // 清空矩阵为零矩阵
	Copy(a Matrix[T])        // 复制自身数据到目标矩阵a
	SwapRows(row1, row2 int) // 交换两行

	// 数学运算方法
	MatrixVectorMultiply(x Vector[T]) Vector[T] // 矩阵向量乘法（返回A*x）

	// 统计方法
	NonZeroCount() int // 统计非零元素数量
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU[T Number] interface {
	Dim() int                         // 获取矩阵维度
	Decompose(matrix Matrix[T]) error // 对输入方阵执行LU分解（PA=LU）
	SolveReuse(b, x Vector[T]) error  // 重用向量求解Ax=b（利用LU分解结果）
	Inverse() (Matrix[T], error)      // 利用分解结果计算逆矩阵
}
