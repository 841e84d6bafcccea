package types

import (
	"fmt"
	"math"
)

// Branch 网络支路（线路/电缆/变压器/开关等效）
// 电气参数按单位长度给出（Ω/km、μS/km），变压器与开关的长度视为1。
type Branch struct {
	ID        string     // 支路标识
	Type      BranchType // 支路类型
	From      string     // 起始节点ID
	To        string     // 末端节点ID
	ROhmPerKm float64    // 串联电阻（Ω/km）
	XOhmPerKm float64    // 串联电抗（Ω/km）
	BuSPerKm  float64    // 并联电纳（μS/km，对地容性）
	LengthKm  float64    // 长度（km）
	RatedA    float64    // 额定电流（A，0表示未知）
	Tap       float64    // 变压器分接头变比（仅变压器有效，0视为1.0）
	InService bool       // 投运标志
}

// length 有效长度（变压器/开关按1处理，线路缺省按1km）
func (b *Branch) length() float64 {
	if b.Type == BranchTransformer || b.Type == BranchSwitch || b.LengthKm <= 0 {
		return 1.0
	}
	return b.LengthKm
}

// TapRatio 变比（未设置时为1.0）
func (b *Branch) TapRatio() float64 {
	if b.Type != BranchTransformer || b.Tap <= 0 {
		return 1.0
	}
	return b.Tap
}

// SeriesImpedanceOhm 串联阻抗（Ω，总量）
func (b *Branch) SeriesImpedanceOhm() complex128 {
	l := b.length()
	return complex(b.ROhmPerKm*l, b.XOhmPerKm*l)
}

// SeriesAdmittancePU 串联导纳（p.u.，基准阻抗以zbase给定）
// 开关等效支路（阻抗近似为零）按大导纳处理，避免除零。
func (b *Branch) SeriesAdmittancePU(zbaseOhm float64) complex128 {
	z := b.SeriesImpedanceOhm() / complex(zbaseOhm, 0)
	if Zabs := math.Hypot(real(z), imag(z)); Zabs < 1e-12 {
		return complex(SwitchAdmittance, 0)
	}
	return 1 / z
}

// ShuntAdmittancePU 并联导纳总量（p.u.，对地，jB）
// 加盖时两端各取一半（π型等值电路）。
func (b *Branch) ShuntAdmittancePU(zbaseOhm float64) complex128 {
	bS := b.BuSPerKm * 1e-6 * b.length() // μS → S
	return complex(0, bS*zbaseOhm)
}

// Validate 支路参数校验
func (b *Branch) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("支路缺少标识")
	}
	if b.From == "" || b.To == "" {
		return fmt.Errorf("支路 %s 端点定义不完整", b.ID)
	}
	if b.From == b.To {
		return fmt.Errorf("支路 %s 两端连接同一节点 %s", b.ID, b.From)
	}
	if b.ROhmPerKm < 0 || b.XOhmPerKm < 0 {
		return fmt.Errorf("支路 %s 串联参数不能为负: R=%g X=%g", b.ID, b.ROhmPerKm, b.XOhmPerKm)
	}
	if b.Type == BranchTransformer && b.Tap < 0 {
		return fmt.Errorf("支路 %s 分接头变比不能为负: %g", b.ID, b.Tap)
	}
	return nil
}
