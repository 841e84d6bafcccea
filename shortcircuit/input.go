package shortcircuit

import (
	"fmt"

	"powergrid/maths"
	"powergrid/types"
)

// Input 短路计算输入（一次故障计算的不可变值）
//
// 负序/零序阻抗矩阵（p.u.）按投运节点ID升序索引，与 Y-bus 装配使用的
// 矩阵索引完全一致。两相及接地故障必须显式给出所需序网数据，
// 绝不从正序近似推算。
type Input struct {
	FaultNode        string                   // 故障节点ID
	Type             types.FaultType          // 故障类型
	BaseMVA          float64                  // 基准容量（MVA）
	CFactor          float64                  // 电压系数c（IEC 60909表1）
	ThermalDurationS float64                  // 热效应等效时间（s）
	BreakingTimeS    float64                  // 开断时间（s）
	Z2               maths.Matrix[complex128] // 负序阻抗矩阵（p.u.；两相/接地故障必需）
	Z0               maths.Matrix[complex128] // 零序阻抗矩阵（p.u.；接地故障必需）
	TapOverride      map[string]float64       // 变压器分接头变比覆盖（按支路ID）
	Trace            TraceLevel               // 计算过程记录级别
}

// Validate 输入参数校验（不含矩阵维度，维度在索引确定后检查）
func (in *Input) Validate(net *types.NetworkGraph) error {
	if in.FaultNode == "" {
		return fmt.Errorf("%w: 缺少故障节点", ErrConfig)
	}
	n := net.Node(in.FaultNode)
	if n == nil {
		return fmt.Errorf("%w: 未知故障节点: %q", ErrConfig, in.FaultNode)
	}
	if !n.InService {
		return fmt.Errorf("%w: 故障节点 %q 已退运", ErrConfig, in.FaultNode)
	}
	if in.BaseMVA <= 0 {
		return fmt.Errorf("%w: 基准容量必须为正: %g", ErrConfig, in.BaseMVA)
	}
	if in.CFactor <= 0 {
		return fmt.Errorf("%w: 电压系数c必须为正: %g", ErrConfig, in.CFactor)
	}
	if in.ThermalDurationS <= 0 {
		return fmt.Errorf("%w: 热效应等效时间必须为正: %g", ErrConfig, in.ThermalDurationS)
	}
	if in.BreakingTimeS <= 0 {
		return fmt.Errorf("%w: 开断时间必须为正: %g", ErrConfig, in.BreakingTimeS)
	}
	if in.Type.NeedsNegativeSequence() && in.Z2 == nil {
		return fmt.Errorf("%w: 故障类型 %s 需要负序阻抗矩阵", ErrConfig, in.Type)
	}
	if in.Type.NeedsZeroSequence() && in.Z0 == nil {
		return fmt.Errorf("%w: 故障类型 %s 需要零序阻抗矩阵", ErrConfig, in.Type)
	}
	return nil
}
