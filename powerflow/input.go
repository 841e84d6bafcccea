package powerflow

import (
	"fmt"

	"powergrid/types"
)

// TraceLevel 计算过程记录级别（纯输出细节开关，对数值结果无影响）
type TraceLevel uint8

const (
	TraceOff     TraceLevel = iota // 不记录
	TraceSummary                   // 只记录初始化与收敛摘要
	TraceFull                      // 记录每次迭代的失配与修正量
)

// Options 求解器选项
type Options struct {
	Tolerance float64    // 收敛容差（最大功率失配，p.u.）
	MaxIter   int        // 最大迭代次数
	Damping   float64    // 阻尼因子（0<d<=1，修正量乘以该系数）
	FlatStart bool       // 平启动（1.0 p.u./0 rad）
	Trace     TraceLevel // 过程记录级别
}

// DefaultOptions 返回默认求解器选项
func DefaultOptions() Options {
	return Options{
		Tolerance: types.DefaultTolerance,
		MaxIter:   types.DefaultMaxIter,
		Damping:   types.DefaultDamping,
		FlatStart: true,
	}
}

// Input 潮流计算输入（一次求解调用的不可变值对象）
type Input struct {
	BaseMVA       float64               // 基准容量（MVA）
	Options       Options               // 求解器选项
	InitialV      map[string]complex128 // FlatStart=false 时的显式初始电压（p.u.，直角坐标，按节点ID）
	TapOverride   map[string]float64    // 变压器分接头变比覆盖（按支路ID）
	ShuntOverride map[string]complex128 // 节点附加并联导纳覆盖（p.u.，按节点ID）
}

// Validate 输入合法性校验（非法值立即报错，绝不静默取默认值）
func (in *Input) Validate(net *types.NetworkGraph) error {
	if in.BaseMVA <= 0 {
		return fmt.Errorf("%w: 基准容量必须为正: %g", ErrConfig, in.BaseMVA)
	}
	if in.Options.Tolerance <= 0 {
		return fmt.Errorf("%w: 收敛容差必须为正: %g", ErrConfig, in.Options.Tolerance)
	}
	if in.Options.MaxIter <= 0 {
		return fmt.Errorf("%w: 最大迭代次数必须为正: %d", ErrConfig, in.Options.MaxIter)
	}
	if in.Options.Damping <= 0 || in.Options.Damping > 1 {
		return fmt.Errorf("%w: 阻尼因子必须在(0,1]内: %g", ErrConfig, in.Options.Damping)
	}
	if !in.Options.FlatStart {
		if len(in.InitialV) == 0 {
			return fmt.Errorf("%w: 非平启动必须提供显式初始电压", ErrConfig)
		}
		for id := range in.InitialV {
			if net.Node(id) == nil {
				return fmt.Errorf("%w: 初始电压节点不存在: %s", ErrConfig, id)
			}
		}
	}
	for id := range in.ShuntOverride {
		if net.Node(id) == nil {
			return fmt.Errorf("%w: 并联导纳覆盖节点不存在: %s", ErrConfig, id)
		}
	}
	for id, tap := range in.TapOverride {
		if net.Branch(id) == nil {
			return fmt.Errorf("%w: 分接头覆盖支路不存在: %s", ErrConfig, id)
		}
		if tap <= 0 {
			return fmt.Errorf("%w: 分接头覆盖变比必须为正: %s=%g", ErrConfig, id, tap)
		}
	}
	return nil
}
