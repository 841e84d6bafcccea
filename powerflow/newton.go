// Package powerflow 实现交流潮流的三种迭代求解方法：
// Newton-Raphson（主力）、Gauss-Seidel 与 Fast-Decoupled（交叉验证备选）。
// 三者输入输出契约相同，对良态网络必须收敛到同一解（数值容差内）。
package powerflow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"powergrid/types"
)

// Newton 使用 Newton-Raphson 法求解交流潮流
//
// 算法:
//  1. 初始化电压状态（平启动或显式初值）
//  2. 每次迭代:
//     a. 检查PV节点无功限值，越限切换为PQ（记录事件）并继续
//     b. 计算功率失配，最大失配低于容差则收敛
//     c. 构建雅可比，求解修正方程，按阻尼因子施加修正
//  3. 迭代超限返回 Converged=false 与最后状态（不是错误）
//
// 配置错误与数值退化（雅可比奇异）作为错误返回。
func Newton(net *types.NetworkGraph, in Input) (*Result, error) {
	s, err := newState(net, in)
	if err != nil {
		return nil, err
	}

	var (
		lu     mat.LU
		maxMis float64
		iter   int
	)
	for iter = 0; iter < s.opts.MaxIter; iter++ {
		// a. PV限值检查（切换后失配随之变化）
		s.enforcePVLimits(iter)

		// b. 失配与收敛判定
		var dP, dQ []float64
		maxMis, dP, dQ = s.mismatch()
		s.recordIteration(iter, maxMis)
		if maxMis < s.opts.Tolerance {
			return s.finish("newton", true, iter, maxMis)
		}

		// c. 修正方程 J·Δx = [ΔP; ΔQ]
		pvpq, pq := s.pvpqIndex()
		m := len(pvpq) + len(pq)
		if m == 0 {
			// 只有平衡节点，无未知量
			return s.finish("newton", true, iter, maxMis)
		}
		jac := s.buildJacobian(pvpq, pq)
		rhs := mat.NewVecDense(m, nil)
		for k, i := range pvpq {
			rhs.SetVec(k, dP[i])
		}
		for k, i := range pq {
			rhs.SetVec(len(pvpq)+k, dQ[i])
		}

		lu.Factorize(jac)
		dx := mat.NewVecDense(m, nil)
		if err := lu.SolveVecTo(dx, false, rhs); err != nil {
			return nil, fmt.Errorf("%w: 雅可比矩阵求解失败 (iter=%d): %v", ErrDegenerate, iter, err)
		}

		// 阻尼修正
		d := s.opts.Damping
		for k, i := range pvpq {
			s.va[i] += d * dx.AtVec(k)
		}
		for k, i := range pq {
			s.vm[i] += d * dx.AtVec(len(pvpq)+k)
			if s.vm[i] <= 0 {
				return nil, fmt.Errorf("%w: 节点 %s 电压幅值迭代至非正值 (iter=%d)", ErrDegenerate, s.idx.ID(i), iter)
			}
		}
		s.trace.addFull(fmt.Sprintf("修正 %d", iter), "Δx = J⁻¹·[ΔP;ΔQ]",
			fmt.Sprintf("阻尼=%g", d), fmt.Sprintf("max|Δx|=%.3e", mat.Norm(dx, math.Inf(1))))
	}

	// 迭代超限: 正常返回不收敛结果
	maxMis, _, _ = s.mismatch()
	s.warnings = append(s.warnings,
		fmt.Sprintf("迭代 %d 次未收敛, 最终失配 %.3e", iter, maxMis))
	return s.finish("newton", false, iter, maxMis)
}
