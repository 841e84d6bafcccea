package contrib

import (
	"fmt"
	"math/cmplx"

	"powergrid/powerflow"
	"powergrid/shortcircuit"
	"powergrid/types"
)

// Flow 把潮流收敛解中某节点的总流入电流分解为按支路份额
//
// 从结果电压状态按π型等值电路直接求值各相邻支路流入该节点的电流，
// 不重新迭代。份额相量之和即该节点吸收的总电流（KCL），
// 负载节点为正向流入。
func Flow(net *types.NetworkGraph, in powerflow.Input, res *powerflow.Result, nodeID string) (*Breakdown, error) {
	if res == nil || !res.Converged {
		return nil, fmt.Errorf("%w: 潮流结果未收敛", ErrInput)
	}
	node := net.Node(nodeID)
	if node == nil || !node.InService {
		return nil, fmt.Errorf("%w: 未知或退运节点: %q", ErrInput, nodeID)
	}

	// 结果电压状态（相量）
	v := make(map[string]complex128, len(res.Buses))
	for _, bus := range res.Buses {
		v[bus.ID] = cmplx.Rect(bus.VmPU, bus.VaRad)
	}

	ibase := node.IBaseKA(in.BaseMVA)
	var total complex128
	var branches []shortcircuit.Contribution
	for _, bid := range net.InServiceBranchIDs() {
		b := net.Branch(bid)
		if b.From != nodeID && b.To != nodeID {
			continue
		}
		arriving := branchArrival(net, b, in.TapOverride, in.BaseMVA, v, nodeID) * complex(ibase, 0)
		total += arriving
		branches = append(branches, shortcircuit.Contribution{ID: bid, IKA: arriving})
	}
	if len(branches) == 0 {
		return nil, fmt.Errorf("%w: 节点 %q 无相邻投运支路", ErrInput, nodeID)
	}

	totalAbs := cmplx.Abs(total)
	for i := range branches {
		if totalAbs > 0 {
			branches[i].SharePct = cmplx.Abs(branches[i].IKA) / totalAbs * 100
		}
	}

	return &Breakdown{Node: nodeID, TotalKA: total, Branches: branches}, nil
}
