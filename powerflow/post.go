package powerflow

import (
	"fmt"
	"math/cmplx"
)

// finish 从收敛（或最后一次迭代）的电压状态做直接求值后处理，组装结果。
// 支路电流/功率、系统损耗与平衡节点功率全部由电压状态对Y-bus直接求值，
// 绝不重新迭代。
func (s *state) finish(method string, converged bool, iter int, maxMis float64) (*Result, error) {
	res := &Result{
		Method:      method,
		Converged:   converged,
		Iterations:  iter,
		MaxMismatch: maxMis,
		Events:      s.events,
		Warnings:    s.warnings,
		Mismatches:  s.misHist,
		Trace:       s.trace,
	}

	// 1. 节点结果（矩阵索引顺序即节点ID升序）
	for i, id := range s.idx.IDs() {
		node := s.net.Node(id)
		p, q := s.injection(i)
		res.Buses = append(res.Buses, BusResult{
			ID:    id,
			Type:  s.busType[i],
			VmPU:  s.vm[i],
			VaRad: s.va[i],
			VkV:   s.vm[i] * node.UnKV,
			PMW:   p * s.baseMVA,
			QMvar: q * s.baseMVA,
		})
	}

	// 2. 支路潮流（π型等值电路双向求值，与装配口径一致）
	for _, bid := range s.net.InServiceBranchIDs() {
		b := s.net.Branch(bid)
		i, j := s.idx.Of(b.From), s.idx.Of(b.To)
		zbase := s.net.Node(b.From).ZBaseOhm(s.baseMVA)
		ys := b.SeriesAdmittancePU(zbase)
		ysh := b.ShuntAdmittancePU(zbase)
		t := complex(s.effectiveTap(bid), 0)

		vf := s.complexVoltage(i)
		vt := s.complexVoltage(j)

		// 起始侧电流: If = (ys+ysh/2)/t²·Vf − ys/t·Vt
		iFrom := (ys+ysh/2)/(t*t)*vf - ys/t*vt
		// 末端侧电流: It = (ys+ysh/2)·Vt − ys/t·Vf
		iTo := (ys+ysh/2)*vt - ys/t*vf

		sFrom := vf * cmplx.Conj(iFrom) * complex(s.baseMVA, 0)
		sTo := vt * cmplx.Conj(iTo) * complex(s.baseMVA, 0)

		flow := BranchFlow{
			ID:        bid,
			From:      b.From,
			To:        b.To,
			IFromKA:   cmplx.Abs(iFrom) * s.net.Node(b.From).IBaseKA(s.baseMVA),
			IToKA:     cmplx.Abs(iTo) * s.net.Node(b.To).IBaseKA(s.baseMVA),
			PFromMW:   real(sFrom),
			QFromMvar: imag(sFrom),
			PToMW:     real(sTo),
			QToMvar:   imag(sTo),
			PLossMW:   real(sFrom) + real(sTo),
			QLossMvar: imag(sFrom) + imag(sTo),
		}
		if b.RatedA > 0 {
			flow.LoadingPct = flow.IFromKA * 1000 / b.RatedA * 100
		}
		res.Branches = append(res.Branches, flow)
		res.PLossMW += flow.PLossMW
		res.QLossMvar += flow.QLossMvar
	}

	// 3. 平衡节点功率（注入方程直接求值）
	pSlack, qSlack := s.injection(s.slack)
	res.SlackPMW = pSlack * s.baseMVA
	res.SlackQMvar = qSlack * s.baseMVA

	// 4. 诊断: 电压越界提示
	for _, bus := range res.Buses {
		if bus.VmPU < 0.9 || bus.VmPU > 1.1 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("节点 %s 电压越界: %.4f p.u.", bus.ID, bus.VmPU))
		}
	}

	s.trace.add("收敛摘要", "max|ΔP,ΔQ| < ε",
		fmt.Sprintf("iter=%d, 收敛=%v", iter, converged),
		fmt.Sprintf("失配=%.3e, 损耗=%.4f MW", maxMis, res.PLossMW))
	return res, nil
}

// effectiveTap 支路有效变比（覆盖优先，与ybus装配一致）
func (s *state) effectiveTap(bid string) float64 {
	if s.tapOv != nil {
		if t, ok := s.tapOv[bid]; ok && t > 0 {
			return t
		}
	}
	return s.net.Branch(bid).TapRatio()
}
