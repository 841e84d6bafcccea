package ybus

import (
	"fmt"

	"powergrid/maths"
)

// Zbus 对导纳矩阵求逆得到阻抗矩阵
// Z-bus 对角元即各节点的戴维南等效阻抗（p.u.），短路计算直接读取。
// 矩阵奇异（电气不连通或病态网络）返回 ErrSingular。
func Zbus(y maths.Matrix[complex128]) (maths.Matrix[complex128], error) {
	lu, err := maths.NewLU[complex128](y.Rows())
	if err != nil {
		return nil, fmt.Errorf("Z-bus 求逆: %w", err)
	}
	if err := lu.Decompose(y); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	z, err := lu.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	return z, nil
}
