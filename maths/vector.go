package maths

import "fmt"

// denseVector 稠密向量实现（基于切片，全量存储所有元素）
type denseVector[T Number] struct {
	data []T
}

// NewDenseVector 创建指定长度的零向量
func NewDenseVector[T Number](length int) Vector[T] {
	return &denseVector[T]{data: make([]T, length)}
}

// NewDenseVectorWithData 使用给定切片创建向量（不复制，直接引用）
func NewDenseVectorWithData[T Number](data []T) Vector[T] {
	return &denseVector[T]{data: data}
}

// Length 返回向量长度
func (v *denseVector[T]) Length() int {
	return len(v.data)
}

// String 返回向量的字符串表示
func (v *denseVector[T]) String() string {
	return fmt.Sprintf("%v", v.data)
}

// Get 获取指定索引元素值（越界panic）
func (v *denseVector[T]) Get(index int) T {
	return v.data[index]
}

// Set 设置指定索引元素值（越界panic）
func (v *denseVector[T]) Set(index int, value T) {
	v.data[index] = value
}

// Increment 增量更新指定索引元素值
func (v *denseVector[T]) Increment(index int, value T) {
	v.data[index] += value
}

// ToDense 返回数据切片的副本
func (v *denseVector[T]) ToDense() []T {
	cpy := make([]T, len(v.data))
	copy(cpy, v.data)
	return cpy
}

// BuildFromDense 从稠密切片构建向量（覆盖原有数据）
func (v *denseVector[T]) BuildFromDense(dense []T) {
	v.data = make([]T, len(dense))
	copy(v.data, dense)
}

// Zero 清空向量为零向量
func (v *denseVector[T]) Zero() {
	var zero T
	for i := range v.data {
		v.data[i] = zero
	}
}

// Copy 复制自身数据到目标向量
func (v *denseVector[T]) Copy(a Vector[T]) {
	if a.Length() != v.Length() {
		panic(fmt.Sprintf("vector copy: length mismatch %d != %d", v.Length(), a.Length()))
	}
	if target, ok := a.(*denseVector[T]); ok {
		copy(target.data, v.data)
		return
	}
	for i := range v.data {
		a.Set(i, v.data[i])
	}
}

// MaxAbs 返回向量元素绝对值的最大值
func (v *denseVector[T]) MaxAbs() float64 {
	max := 0.0
	for _, val := range v.data {
		if a := Abs(val); a > max {
			max = a
		}
	}
	return max
}
