package types

import (
	"fmt"
	"math"
)

// Node 网络节点（母线）
// 拓扑装配完成后在求解过程中不可变；潮流求解器对PV节点的
// PV→PQ切换只发生在求解器内部状态上，不回写节点本身。
type Node struct {
	ID        string  // 节点标识
	Type      BusType // 母线类型
	UnKV      float64 // 额定电压等级（kV，线电压）
	PMW       float64 // 有功注入（MW，负载为负；PQ/PV有效）
	QMvar     float64 // 无功注入（Mvar；PQ有效）
	VSetPU    float64 // 电压幅值设定（p.u.；Slack/PV有效）
	AngleRad  float64 // 电压相角设定（rad；Slack有效）
	QMinMvar  float64 // 无功下限（Mvar；PV有效，与QMaxMvar同时为零视为不限）
	QMaxMvar  float64 // 无功上限（Mvar；PV有效，与QMinMvar同时为零视为不限）
	SourceR   float64 // 电源内阻（Ω；Slack/PV的外部电源等效阻抗，短路计算接地路径）
	SourceX   float64 // 电源内抗（Ω）
	InService bool    // 投运标志
}

// HasSource 判断节点是否带外部电源等效阻抗
func (n *Node) HasSource() bool {
	return (n.Type == BusSlack || n.Type == BusPV) && (n.SourceR != 0 || n.SourceX != 0)
}

// SourceAdmittancePU 电源等效导纳（p.u.，以节点电压等级和给定基准容量折算）
func (n *Node) SourceAdmittancePU(baseMVA float64) complex128 {
	z := complex(n.SourceR, n.SourceX) / complex(n.ZBaseOhm(baseMVA), 0)
	if zAbs := math.Hypot(real(z), imag(z)); zAbs < 1e-12 {
		// 零内阻电源按大导纳处理，同开关支路
		return complex(SwitchAdmittance, 0)
	}
	return 1 / z
}

// ZBaseOhm 节点电压等级下的基准阻抗（Ω）
func (n *Node) ZBaseOhm(baseMVA float64) float64 {
	return n.UnKV * n.UnKV / baseMVA
}

// IBaseKA 节点电压等级下的基准电流（kA）
func (n *Node) IBaseKA(baseMVA float64) float64 {
	return baseMVA / (math.Sqrt(3) * n.UnKV)
}

// Validate 节点参数校验
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("节点缺少标识")
	}
	if n.UnKV <= 0 {
		return fmt.Errorf("节点 %s 电压等级必须为正: %g", n.ID, n.UnKV)
	}
	switch n.Type {
	case BusSlack, BusPV:
		if n.VSetPU <= 0 {
			return fmt.Errorf("节点 %s (%s) 电压设定必须为正: %g", n.ID, n.Type, n.VSetPU)
		}
		if n.Type == BusPV && n.QMinMvar > n.QMaxMvar {
			return fmt.Errorf("节点 %s 无功限值区间非法: [%g, %g]", n.ID, n.QMinMvar, n.QMaxMvar)
		}
	case BusPQ:
		// PQ节点无额外约束
	default:
		return fmt.Errorf("节点 %s 母线类型非法: %d", n.ID, n.Type)
	}
	return nil
}
