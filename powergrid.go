// Package powergrid 把算例装载、潮流求解、短路计算与电流分量分解
// 组装为一套门面接口。核心求解包保持纯计算边界，门面负责把它们
// 按算例配置串起来。
package powergrid

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"powergrid/contrib"
	"powergrid/load"
	"powergrid/powerflow"
	"powergrid/shortcircuit"
)

// LoadCase 从YAML文件装载算例
func LoadCase(path string) (*load.Case, error) {
	return load.FromFile(path)
}

// RunPowerFlow 按算例配置的方法执行潮流求解
func RunPowerFlow(c *load.Case) (*powerflow.Result, error) {
	return powerflow.Solve(c.Method, c.Net, c.PowerFlow)
}

// RunShortCircuit 执行算例定义的短路计算并附加电流分量分解
func RunShortCircuit(c *load.Case) (*shortcircuit.Result, error) {
	if c.ShortCircuit == nil {
		return nil, fmt.Errorf("算例未定义短路计算")
	}
	res, err := shortcircuit.Solve(c.Net, *c.ShortCircuit)
	if err != nil {
		return nil, err
	}
	bd, err := contrib.Fault(c.Net, *c.ShortCircuit, res)
	if err != nil {
		return nil, err
	}
	res.SourceContributions = bd.Sources
	res.BranchContributions = bd.Branches
	return res, nil
}

// SweepShortCircuit 对全部投运节点并行扫描短路计算
//
// 每次求解持有独立输入、产出独立结果（无跨调用副作用），按工作协程
// 上限并行分发；结果按节点ID升序返回，与顺序扫描逐位一致。
func SweepShortCircuit(ctx context.Context, c *load.Case, workers int) ([]*shortcircuit.Result, error) {
	if c.ShortCircuit == nil {
		return nil, fmt.Errorf("算例未定义短路计算")
	}
	if workers < 1 {
		workers = 1
	}
	ids := c.Net.InServiceNodeIDs()
	results := make([]*shortcircuit.Result, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := *c.ShortCircuit
			in.FaultNode = id
			res, err := shortcircuit.Solve(c.Net, in)
			if err != nil {
				return fmt.Errorf("节点 %s: %w", id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
