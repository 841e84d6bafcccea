package types

import "fmt"

// BusType 母线类型（潮流计算中的节点角色）
type BusType uint8

const (
	BusPQ    BusType = iota // PQ节点：有功/无功给定，电压幅值与相角未知
	BusPV                   // PV节点：有功与电压幅值给定，无功未知（受限值约束）
	BusSlack                // 平衡节点：电压幅值与相角给定，吸收系统功率不平衡
)

// String 返回母线类型名称
func (t BusType) String() string {
	switch t {
	case BusPQ:
		return "PQ"
	case BusPV:
		return "PV"
	case BusSlack:
		return "Slack"
	}
	return fmt.Sprintf("BusType(%d)", uint8(t))
}

// ParseBusType 从配置字符串解析母线类型
func ParseBusType(s string) (BusType, error) {
	switch s {
	case "pq", "PQ":
		return BusPQ, nil
	case "pv", "PV":
		return BusPV, nil
	case "slack", "Slack", "SLACK":
		return BusSlack, nil
	}
	return BusPQ, fmt.Errorf("未知母线类型: %q", s)
}

// BranchType 支路类型
type BranchType uint8

const (
	BranchLine        BranchType = iota // 架空线
	BranchCable                         // 电缆
	BranchTransformer                   // 变压器（带分接头变比）
	BranchSwitch                        // 开关等效支路（闭合开关，阻抗近似为零）
)

// String 返回支路类型名称
func (t BranchType) String() string {
	switch t {
	case BranchLine:
		return "Line"
	case BranchCable:
		return "Cable"
	case BranchTransformer:
		return "Transformer"
	case BranchSwitch:
		return "Switch"
	}
	return fmt.Sprintf("BranchType(%d)", uint8(t))
}

// ParseBranchType 从配置字符串解析支路类型
func ParseBranchType(s string) (BranchType, error) {
	switch s {
	case "line":
		return BranchLine, nil
	case "cable":
		return BranchCable, nil
	case "transformer":
		return BranchTransformer, nil
	case "switch":
		return BranchSwitch, nil
	}
	return BranchLine, fmt.Errorf("未知支路类型: %q", s)
}

// FaultType IEC 60909 短路故障类型
type FaultType uint8

const (
	FaultThreePhase        FaultType = iota // 三相对称短路
	FaultTwoPhase                           // 两相短路（不接地）
	FaultTwoPhaseGround                     // 两相接地短路
	FaultSinglePhaseGround                  // 单相接地短路
)

// String 返回故障类型名称
func (t FaultType) String() string {
	switch t {
	case FaultThreePhase:
		return "3ph"
	case FaultTwoPhase:
		return "2ph"
	case FaultTwoPhaseGround:
		return "2ph-g"
	case FaultSinglePhaseGround:
		return "1ph-g"
	}
	return fmt.Sprintf("FaultType(%d)", uint8(t))
}

// ParseFaultType 从配置字符串解析故障类型
func ParseFaultType(s string) (FaultType, error) {
	switch s {
	case "three_phase", "3ph":
		return FaultThreePhase, nil
	case "two_phase", "2ph":
		return FaultTwoPhase, nil
	case "two_phase_ground", "2ph-g":
		return FaultTwoPhaseGround, nil
	case "single_phase_ground", "1ph-g":
		return FaultSinglePhaseGround, nil
	}
	return FaultThreePhase, fmt.Errorf("未知故障类型: %q", s)
}

// NeedsNegativeSequence 判断故障类型是否需要负序阻抗数据
func (t FaultType) NeedsNegativeSequence() bool {
	switch t {
	case FaultThreePhase:
		return false
	case FaultTwoPhase, FaultTwoPhaseGround, FaultSinglePhaseGround:
		return true
	}
	return false
}

// NeedsZeroSequence 判断故障类型是否需要零序阻抗数据（接地故障）
func (t FaultType) NeedsZeroSequence() bool {
	switch t {
	case FaultThreePhase, FaultTwoPhase:
		return false
	case FaultTwoPhaseGround, FaultSinglePhaseGround:
		return true
	}
	return false
}
