package powerflow

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"powergrid/types"
)

// FastDecoupled 使用快速解耦法（XB格式）求解交流潮流
//
// 与 Newton 同一输入输出契约、同一失配收敛判据。近似雅可比子块只构建
// 一次并分解复用:
//
//	B′ - 纯电抗网络的节点电纳矩阵（非平衡节点），用于 P-θ 半迭代
//	B″ - 完整网络电纳矩阵的负值（PQ节点），用于 Q-V 半迭代
//
// 每次迭代执行两个廉价线性求解:
//
//	B′·Δθ  = ΔP/Vm
//	B″·ΔVm = ΔQ/Vm
//
// PV→PQ切换后B″维度变化，重新构建并分解。
func FastDecoupled(net *types.NetworkGraph, in Input) (*Result, error) {
	s, err := newState(net, in)
	if err != nil {
		return nil, err
	}

	// B′只依赖拓扑，全程构建一次
	pvpq, pq := s.pvpqIndex()
	var bPrime mat.LU
	if len(pvpq) > 0 {
		bPrime.Factorize(s.buildBPrime(pvpq))
	}
	var bSecond mat.LU
	if len(pq) > 0 {
		bSecond.Factorize(s.buildBSecond(pq))
	}

	var (
		maxMis float64
		iter   int
	)
	for iter = 0; iter < s.opts.MaxIter; iter++ {
		// PV限值检查（切换后B″需要重建）
		if s.enforcePVLimits(iter) {
			pvpq, pq = s.pvpqIndex()
			if len(pq) > 0 {
				bSecond.Factorize(s.buildBSecond(pq))
			}
		}

		maxMis, dP, dQ := s.mismatch()
		s.recordIteration(iter, maxMis)
		if maxMis < s.opts.Tolerance {
			return s.finish("fdlf", true, iter, maxMis)
		}
		if len(pvpq) == 0 {
			return s.finish("fdlf", true, iter, maxMis)
		}

		// P-θ 半迭代
		rhs := mat.NewVecDense(len(pvpq), nil)
		for k, i := range pvpq {
			rhs.SetVec(k, dP[i]/s.vm[i])
		}
		dth := mat.NewVecDense(len(pvpq), nil)
		if err := bPrime.SolveVecTo(dth, false, rhs); err != nil {
			return nil, fmt.Errorf("%w: B′求解失败 (iter=%d): %v", ErrDegenerate, iter, err)
		}
		for k, i := range pvpq {
			s.va[i] += s.opts.Damping * dth.AtVec(k)
		}

		// Q-V 半迭代（θ更新后重算失配）
		if len(pq) > 0 {
			_, _, dQ = s.mismatch()
			rhsQ := mat.NewVecDense(len(pq), nil)
			for k, i := range pq {
				rhsQ.SetVec(k, dQ[i]/s.vm[i])
			}
			dvm := mat.NewVecDense(len(pq), nil)
			if err := bSecond.SolveVecTo(dvm, false, rhsQ); err != nil {
				return nil, fmt.Errorf("%w: B″求解失败 (iter=%d): %v", ErrDegenerate, iter, err)
			}
			for k, i := range pq {
				s.vm[i] += s.opts.Damping * dvm.AtVec(k)
				if s.vm[i] <= 0 {
					return nil, fmt.Errorf("%w: 节点 %s 电压幅值迭代至非正值 (iter=%d)", ErrDegenerate, s.idx.ID(i), iter)
				}
			}
		}
	}

	maxMis, _, _ = s.mismatch()
	s.warnings = append(s.warnings,
		fmt.Sprintf("迭代 %d 次未收敛, 最终失配 %.3e", iter, maxMis))
	return s.finish("fdlf", false, iter, maxMis)
}

// buildBPrime 构建B′矩阵（纯电抗网络，忽略电阻/并联电纳/变比）
func (s *state) buildBPrime(pvpq []int) *mat.Dense {
	pos := make(map[int]int, len(pvpq))
	for k, i := range pvpq {
		pos[i] = k
	}
	bp := mat.NewDense(len(pvpq), len(pvpq), nil)
	for _, bid := range s.net.InServiceBranchIDs() {
		br := s.net.Branch(bid)
		i, j := s.idx.Of(br.From), s.idx.Of(br.To)
		zbase := s.net.Node(br.From).ZBaseOhm(s.baseMVA)
		x := imag(br.SeriesImpedanceOhm()) / zbase
		var susceptance float64
		if math.Abs(x) < 1e-9 {
			// 开关等效支路: 大电纳近似，同装配口径
			susceptance = types.SwitchAdmittance
		} else {
			susceptance = 1 / x
		}
		ki, oki := pos[i]
		kj, okj := pos[j]
		if oki {
			bp.Set(ki, ki, bp.At(ki, ki)+susceptance)
		}
		if okj {
			bp.Set(kj, kj, bp.At(kj, kj)+susceptance)
		}
		if oki && okj {
			bp.Set(ki, kj, bp.At(ki, kj)-susceptance)
			bp.Set(kj, ki, bp.At(kj, ki)-susceptance)
		}
	}
	return bp
}

// buildBSecond 构建B″矩阵（完整网络电纳矩阵负值，PQ节点子块）
func (s *state) buildBSecond(pq []int) *mat.Dense {
	pos := make(map[int]int, len(pq))
	for k, i := range pq {
		pos[i] = k
	}
	bs := mat.NewDense(len(pq), len(pq), nil)
	for _, i := range pq {
		cols, vals := s.y.GetRow(i)
		for k, j := range cols {
			if kj, ok := pos[j]; ok {
				bs.Set(pos[i], kj, -imag(vals.Get(k)))
			}
		}
	}
	return bs
}
