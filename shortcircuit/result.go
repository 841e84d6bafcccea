package shortcircuit

import "powergrid/types"

// Contribution 故障电流的单一来源份额（按ID升序输出）
type Contribution struct {
	ID       string     // 电源节点ID或支路ID
	IKA      complex128 // 电流相量（kA）
	SharePct float64    // 占总故障电流的百分比（按幅值）
}

// Result 一次故障计算的结果（产生后不可变）
type Result struct {
	FaultNode     string          // 故障节点ID
	Type          types.FaultType // 故障类型
	UnKV          float64         // 故障点额定电压（kV）
	CFactor       float64         // 采用的电压系数c
	VoltageFactor float64         // 故障类型电压因子（3ph: 1/√3, 1ph-g: √3, 2ph: 1）

	Z1Ohm   complex128 // 正序等效阻抗（Ω，故障点戴维南阻抗）
	ZeqOhm  complex128 // 按故障类型组合后的等效阻抗（Ω）
	RXRatio float64    // 等效阻抗的 R/X 比
	Kappa   float64    // 峰值系数 κ = 1.02 + 0.98·e^(−3R/X)

	IkssKA float64 // 初始对称短路电流（kA）
	IpKA   float64 // 峰值短路电流（kA）
	IthKA  float64 // 热效应等效电流（kA）
	IbKA   float64 // 开断电流（kA）
	SkMVA  float64 // 短路容量（MVA）

	// VPostPU 故障期间各节点残压相量（p.u.，含电压系数c；故障点为零）。
	// 电流分量分解复用该状态，不重新求解。
	VPostPU map[string]complex128

	// 可选电流分量分解（由 contrib 包计算后附加）
	SourceContributions []Contribution
	BranchContributions []Contribution

	Trace *Trace
}
