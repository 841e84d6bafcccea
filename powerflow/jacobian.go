package powerflow

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// buildJacobian 按当前电压状态构建潮流雅可比矩阵
// 未知量排序: x = [θ(非平衡); Vm(PQ)]，方程排序: [ΔP(非平衡); ΔQ(PQ)]
//
// 四个子块（功率注入方程的标准偏导）:
//
//	H = ∂P/∂θ   N = ∂P/∂Vm
//	M = ∂Q/∂θ   L = ∂Q/∂Vm
//
// 对角元:
//
//	H_ii = −Q_i − B_ii·V_i²    N_ii = P_i/V_i + G_ii·V_i
//	M_ii = P_i − G_ii·V_i²     L_ii = Q_i/V_i − B_ii·V_i
//
// 非对角元（仅Y_ij非零处）:
//
//	H_ij = V_i·V_j·(G_ij·sinθij − B_ij·cosθij)
//	N_ij = V_i·(G_ij·cosθij + B_ij·sinθij)
//	M_ij = −V_i·V_j·(G_ij·cosθij + B_ij·sinθij)
//	L_ij = V_i·(G_ij·sinθij − B_ij·cosθij)
func (s *state) buildJacobian(pvpq, pq []int) *mat.Dense {
	npvpq, npq := len(pvpq), len(pq)
	m := npvpq + npq
	jac := mat.NewDense(m, m, nil)

	// 矩阵索引 → 未知量位置
	rowOfP := make(map[int]int, npvpq) // 节点i的ΔP方程行号
	colOfTh := make(map[int]int, npvpq)
	rowOfQ := make(map[int]int, npq)
	colOfVm := make(map[int]int, npq)
	for k, i := range pvpq {
		rowOfP[i] = k
		colOfTh[i] = k
	}
	for k, i := range pq {
		rowOfQ[i] = npvpq + k
		colOfVm[i] = npvpq + k
	}

	for _, i := range pvpq {
		pi, qi := s.injection(i)
		vi := s.vm[i]
		cols, vals := s.y.GetRow(i)
		for k, j := range cols {
			yij := vals.Get(k)
			g, b := real(yij), imag(yij)
			if i == j {
				// 对角元
				jac.Set(rowOfP[i], colOfTh[i], -qi-b*vi*vi)
				if col, ok := colOfVm[i]; ok {
					jac.Set(rowOfP[i], col, pi/vi+g*vi)
				}
				if row, ok := rowOfQ[i]; ok {
					jac.Set(row, colOfTh[i], pi-g*vi*vi)
					if col, ok := colOfVm[i]; ok {
						jac.Set(row, col, qi/vi-b*vi)
					}
				}
				continue
			}
			// 非对角元（j为平衡节点时无对应未知量列）
			th := s.va[i] - s.va[j]
			vj := s.vm[j]
			sin, cos := math.Sin(th), math.Cos(th)
			if col, ok := colOfTh[j]; ok {
				jac.Set(rowOfP[i], col, vi*vj*(g*sin-b*cos))
			}
			if col, ok := colOfVm[j]; ok {
				jac.Set(rowOfP[i], col, vi*(g*cos+b*sin))
			}
			if row, ok := rowOfQ[i]; ok {
				if col, ok := colOfTh[j]; ok {
					jac.Set(row, col, -vi*vj*(g*cos+b*sin))
				}
				if col, ok := colOfVm[j]; ok {
					jac.Set(row, col, vi*(g*sin-b*cos))
				}
			}
		}
	}
	return jac
}
