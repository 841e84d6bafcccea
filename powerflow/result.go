package powerflow

import "powergrid/types"

// SwitchEvent PV→PQ切换事件（离散可归因，绝不静默发生）
type SwitchEvent struct {
	NodeID    string  // 切换节点
	Iteration int     // 发生切换的迭代序号
	Limit     string  // 触发限值："Qmax" 或 "Qmin"
	QMvar     float64 // 固定到的无功值（Mvar）
}

// BusResult 单节点求解结果
type BusResult struct {
	ID    string        // 节点ID
	Type  types.BusType // 求解结束时的母线类型（PV切换后为PQ）
	VmPU  float64       // 电压幅值（p.u.）
	VaRad float64       // 电压相角（rad）
	VkV   float64       // 电压幅值（kV，线电压）
	PMW   float64       // 有功注入（MW）
	QMvar float64       // 无功注入（Mvar）
}

// BranchFlow 单支路潮流结果（两个方向）
type BranchFlow struct {
	ID         string  // 支路ID
	From, To   string  // 端点
	IFromKA    float64 // 起始侧电流（kA）
	IToKA      float64 // 末端侧电流（kA）
	PFromMW    float64 // 起始侧有功（MW，流入支路为正）
	QFromMvar  float64 // 起始侧无功（Mvar）
	PToMW      float64 // 末端侧有功（MW）
	QToMvar    float64 // 末端侧无功（Mvar）
	PLossMW    float64 // 支路有功损耗（MW）
	QLossMvar  float64 // 支路无功损耗（Mvar）
	LoadingPct float64 // 负载率（%，额定电流未知时为0）
}

// Result 潮流计算结果（一次求解调用产出，之后不再修改）
//
// 迭代超限不收敛时 Converged=false，Buses/Branches 为最后一次迭代的状态，
// 调用方依据诊断信息自行决策；这不是错误。
type Result struct {
	Method      string        // 求解方法标识（newton/gauss/fdlf）
	Converged   bool          // 是否收敛
	Iterations  int           // 实际迭代次数
	MaxMismatch float64       // 最终最大功率失配（p.u.）
	Buses       []BusResult   // 按节点ID升序
	Branches    []BranchFlow  // 按支路ID升序
	PLossMW     float64       // 系统总有功损耗（MW）
	QLossMvar   float64       // 系统总无功损耗（Mvar）
	SlackPMW    float64       // 平衡节点有功（MW）
	SlackQMvar  float64       // 平衡节点无功（Mvar）
	Events      []SwitchEvent // PV→PQ切换事件
	Warnings    []string      // 诊断警告
	Mismatches  []float64     // 每次迭代的最大失配（收敛历史）
	Trace       *Trace        // 计算过程记录（TraceOff时为nil）
}
