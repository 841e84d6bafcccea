package contrib

import (
	"fmt"
	"math/cmplx"

	"powergrid/maths"
	"powergrid/shortcircuit"
	"powergrid/types"
	"powergrid/ybus"
)

// Fault 把故障电流分解为按支路、按电源的份额
//
// 分解使用短路结果中的故障残压状态 VPostPU:
//
//	支路份额 - 故障瞬间经各相邻支路流入故障点的电流
//	电源份额 - 各电源经内阻抗注入网络的电流 I = Ys·(c − V)
//
// 正序电流分布对各故障类型同构，份额统一缩放使支路份额相量和的
// 幅值等于结果中的 Ikss。无并联电纳时电源份额之和亦严格等于总电流。
// 故障点自带电源时，其本地注入作为一条附加份额列于支路份额末尾。
func Fault(net *types.NetworkGraph, in shortcircuit.Input, res *shortcircuit.Result) (*Breakdown, error) {
	if res == nil || res.VPostPU == nil {
		return nil, fmt.Errorf("%w: 缺少故障残压状态", ErrInput)
	}
	idx, _, err := ybus.Build(net, ybus.Options{
		BaseMVA:     in.BaseMVA,
		WithSources: true,
		TapOverride: in.TapOverride,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	f := idx.Of(res.FaultNode)
	if f < 0 {
		return nil, fmt.Errorf("%w: 未知故障节点: %q", ErrInput, res.FaultNode)
	}
	// 1. 支路份额: 相邻支路流入故障点的电流（p.u.）
	var total complex128
	var branches []shortcircuit.Contribution
	for _, bid := range net.InServiceBranchIDs() {
		b := net.Branch(bid)
		if b.From != res.FaultNode && b.To != res.FaultNode {
			continue
		}
		arriving := branchArrival(net, b, in.TapOverride, in.BaseMVA, res.VPostPU, res.FaultNode)
		total += arriving
		branches = append(branches, shortcircuit.Contribution{ID: bid, IKA: arriving})
	}

	// 故障点自带电源时其注入电流直接汇入故障点
	if n := net.Node(res.FaultNode); n.HasSource() {
		isrc := n.SourceAdmittancePU(in.BaseMVA) * (complex(res.CFactor, 0) - res.VPostPU[res.FaultNode])
		total += isrc
		branches = append(branches, shortcircuit.Contribution{ID: res.FaultNode, IKA: isrc})
	}

	if cmplx.Abs(total) < maths.Epsilon {
		return nil, fmt.Errorf("%w: 故障点总电流为零", ErrInput)
	}

	// 2. 统一缩放: p.u.分布 → kA，且支路份额相量和的幅值等于Ikss
	scale := complex(res.IkssKA/cmplx.Abs(total), 0)
	for i := range branches {
		branches[i].IKA *= scale
		branches[i].SharePct = cmplx.Abs(branches[i].IKA) / res.IkssKA * 100
	}
	total *= scale

	// 3. 电源份额（折算到故障点电压等级）
	var sources []shortcircuit.Contribution
	for _, id := range idx.IDs() {
		n := net.Node(id)
		if !n.HasSource() {
			continue
		}
		isrc := n.SourceAdmittancePU(in.BaseMVA) * (complex(res.CFactor, 0) - res.VPostPU[id])
		sources = append(sources, shortcircuit.Contribution{
			ID:       id,
			IKA:      isrc * scale,
			SharePct: cmplx.Abs(isrc*scale) / res.IkssKA * 100,
		})
	}

	return &Breakdown{
		Node:     res.FaultNode,
		TotalKA:  total,
		Sources:  sources,
		Branches: branches,
	}, nil
}

// branchArrival 支路流入目标节点的电流（p.u.，π型等值电路）
func branchArrival(net *types.NetworkGraph, b *types.Branch, tapOv map[string]float64, baseMVA float64, v map[string]complex128, at string) complex128 {
	zbase := net.Node(b.From).ZBaseOhm(baseMVA)
	ys := b.SeriesAdmittancePU(zbase)
	ysh := b.ShuntAdmittancePU(zbase)
	t := complex(tapRatio(b, tapOv), 0)
	vf, vt := v[b.From], v[b.To]
	if at == b.To {
		return ys/t*vf - (ys+ysh/2)*vt
	}
	return ys/t*vt - (ys+ysh/2)/(t*t)*vf
}

// tapRatio 支路有效变比（覆盖优先，与ybus装配一致）
func tapRatio(b *types.Branch, override map[string]float64) float64 {
	if override != nil {
		if t, ok := override[b.ID]; ok && t > 0 {
			return t
		}
	}
	return b.TapRatio()
}
