package powerflow

import (
	"fmt"
	"math/cmplx"

	"powergrid/maths"
	"powergrid/types"
)

// GaussSeidel 使用 Gauss-Seidel 法求解交流潮流
//
// 与 Newton 同一输入输出契约、同一失配收敛判据。每次扫描按矩阵索引
// 升序逐节点更新电压，立即使用邻居的最新电压值:
//
//	V_i ← ((P_i − jQ_i)/V_i* − Σ_{j≠i} Y_ij·V_j) / Y_ii
//
// PV节点每次扫描后把电压幅值拉回设定值，无功越限时切换为PQ（记录事件）。
// 收敛慢是方法本性，调用方应配置更高的迭代上限（types.GaussSeidelMaxIter）。
func GaussSeidel(net *types.NetworkGraph, in Input) (*Result, error) {
	s, err := newState(net, in)
	if err != nil {
		return nil, err
	}

	var (
		maxMis float64
		iter   int
	)
	for iter = 0; iter < s.opts.MaxIter; iter++ {
		// PV限值与收敛判定（与Newton相同的判据）
		s.enforcePVLimits(iter)
		maxMis, _, _ = s.mismatch()
		s.recordIteration(iter, maxMis)
		if maxMis < s.opts.Tolerance {
			return s.finish("gauss", true, iter, maxMis)
		}

		// 逐节点顺序更新（确定性要求: 升序遍历）
		for i := 0; i < s.n; i++ {
			if i == s.slack {
				continue
			}
			yii := s.y.Get(i, i)
			if maths.Abs(yii) < maths.Epsilon {
				return nil, fmt.Errorf("%w: 节点 %s 对角导纳为零", ErrDegenerate, s.idx.ID(i))
			}

			// PV节点的无功取当前状态计算值（限值检查已在扫描前完成）
			q := s.qSpec[i]
			if s.busType[i] == types.BusPV {
				_, q = s.injection(i)
			}

			vi := s.complexVoltage(i)
			var sum complex128
			cols, vals := s.y.GetRow(i)
			for k, j := range cols {
				if j != i {
					sum += vals.Get(k) * s.complexVoltage(j)
				}
			}
			sConj := complex(s.pSpec[i], -q)
			vNew := (sConj/cmplx.Conj(vi) - sum) / yii

			// 阻尼更新
			vNext := vi + complex(s.opts.Damping, 0)*(vNew-vi)
			if s.busType[i] == types.BusPV {
				// 幅值回设定值，保留相角
				if a := cmplx.Abs(vNext); a > 0 {
					vNext = vNext * complex(s.vSet[i]/a, 0)
				}
			}
			s.vm[i] = cmplx.Abs(vNext)
			s.va[i] = cmplx.Phase(vNext)
		}
	}

	maxMis, _, _ = s.mismatch()
	s.warnings = append(s.warnings,
		fmt.Sprintf("迭代 %d 次未收敛, 最终失配 %.3e", iter, maxMis))
	return s.finish("gauss", false, iter, maxMis)
}
