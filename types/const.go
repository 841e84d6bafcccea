package types

// 求解器默认参数
const (
	DefaultTolerance = 1e-8 // 默认收敛容差（最大功率失配，p.u.）
	DefaultMaxIter   = 50   // 默认最大迭代次数
	DefaultDamping   = 1.0  // 默认阻尼因子（1.0为全步长）

	GaussSeidelMaxIter = 2000 // Gauss-Seidel 收敛慢，默认迭代上限更高

	DefaultFrequencyHz = 50.0 // 系统额定频率（中压配网）
	DefaultCFactor     = 1.10 // IEC 60909 默认电压系数c（最大短路电流）
)

// 开关等效支路的串联导纳上限（p.u.）
// 闭合开关阻抗视为零，直接加盖会除零，用大导纳近似（同元件加盖的防除零处理）。
const SwitchAdmittance = 1e6
