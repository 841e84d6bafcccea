package shortcircuit

import "powergrid/types"

// Sweep 对全部投运节点逐一计算短路电流（节点ID升序）
//
// 单次调用内部保持顺序执行；并行扫描由调用方在整个 Solve 粒度上
// 自行组织（每次 Solve 持有独立输入、产出独立结果，无跨调用副作用）。
func Sweep(net *types.NetworkGraph, in Input) ([]*Result, error) {
	ids := net.InServiceNodeIDs()
	results := make([]*Result, 0, len(ids))
	for _, id := range ids {
		one := in
		one.FaultNode = id
		res, err := Solve(net, one)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
