package powerflow

import (
	"fmt"
	"math"
	"math/cmplx"

	"powergrid/maths"
	"powergrid/types"
	"powergrid/ybus"
)

// state 求解器内部状态（一次求解调用私有，调用间无共享）
// 母线类型数组是拓扑快照的可变副本，PV→PQ切换只改这里。
type state struct {
	net     *types.NetworkGraph
	idx     *ybus.Index
	y       maths.Matrix[complex128]
	baseMVA float64
	opts    Options
	tapOv   map[string]float64 // 分接头变比覆盖（潮流后处理与装配保持一致）

	n       int             // 矩阵维度（投运节点数量）
	slack   int             // 平衡节点矩阵索引
	busType []types.BusType // 当前母线类型（可变副本）
	pSpec   []float64       // 有功注入给定（p.u.）
	qSpec   []float64       // 无功注入给定（p.u.）
	qMin    []float64       // PV无功下限（p.u.）
	qMax    []float64       // PV无功上限（p.u.）
	vSet    []float64       // PV/Slack电压幅值设定（p.u.）
	vm      []float64       // 电压幅值（p.u.，迭代状态）
	va      []float64       // 电压相角（rad，迭代状态）

	events   []SwitchEvent
	warnings []string
	misHist  []float64 // 每次迭代的最大失配（收敛历史诊断）
	trace    *Trace
}

// recordIteration 记录一次迭代的失配（收敛历史 + 过程记录）
func (s *state) recordIteration(iter int, maxMis float64) {
	s.misHist = append(s.misHist, maxMis)
	s.trace.addIteration(iter, maxMis)
}

// newState 构建求解器初始状态
// 步骤:
//  1. 输入与拓扑校验（配置错误立即报出）
//  2. 装配导纳矩阵（不含电源接地路径，潮流方程只用支路网络）
//  3. 初始化电压状态：平启动或调用方给定的显式初值
func newState(net *types.NetworkGraph, in Input) (*state, error) {
	// 1. 校验
	if err := in.Validate(net); err != nil {
		return nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	// 2. 装配
	idx, y, err := ybus.Build(net, ybus.Options{
		BaseMVA:       in.BaseMVA,
		TapOverride:   in.TapOverride,
		ShuntOverride: in.ShuntOverride,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	n := idx.Size()
	s := &state{
		net:     net,
		idx:     idx,
		y:       y,
		baseMVA: in.BaseMVA,
		opts:    in.Options,
		tapOv:   in.TapOverride,
		n:       n,
		busType: make([]types.BusType, n),
		pSpec:   make([]float64, n),
		qSpec:   make([]float64, n),
		qMin:    make([]float64, n),
		qMax:    make([]float64, n),
		vSet:    make([]float64, n),
		vm:      make([]float64, n),
		va:      make([]float64, n),
		trace:   newTrace(in.Options.Trace),
	}

	// 3. 节点给定值与初始电压
	for i, id := range idx.IDs() {
		node := net.Node(id)
		s.busType[i] = node.Type
		s.pSpec[i] = node.PMW / in.BaseMVA
		s.qSpec[i] = node.QMvar / in.BaseMVA
		s.qMin[i] = node.QMinMvar / in.BaseMVA
		s.qMax[i] = node.QMaxMvar / in.BaseMVA
		// 未配置限值（上下限同时为零）的PV节点不参与限值切换
		if node.Type == types.BusPV && node.QMinMvar == 0 && node.QMaxMvar == 0 {
			s.qMin[i] = math.Inf(-1)
			s.qMax[i] = math.Inf(1)
		}
		s.vSet[i] = node.VSetPU
		switch node.Type {
		case types.BusSlack:
			s.slack = i
			s.vm[i] = node.VSetPU
			s.va[i] = node.AngleRad
		case types.BusPV:
			s.vm[i] = node.VSetPU
		case types.BusPQ:
			s.vm[i] = 1.0
		}
		if !in.Options.FlatStart {
			if v, ok := in.InitialV[id]; ok {
				s.vm[i] = cmplx.Abs(v)
				s.va[i] = cmplx.Phase(v)
			}
		}
	}
	s.trace.add("初始化", "V⁰",
		fmt.Sprintf("n=%d, 平启动=%v", n, in.Options.FlatStart),
		fmt.Sprintf("slack=%s", idx.ID(s.slack)))
	return s, nil
}

// injection 按当前电压状态计算节点i的功率注入（p.u.）
// P_i = Σ_j Vi·Vj·(G_ij·cosθij + B_ij·sinθij)
// Q_i = Σ_j Vi·Vj·(G_ij·sinθij − B_ij·cosθij)
func (s *state) injection(i int) (p, q float64) {
	vi := s.vm[i]
	cols, vals := s.y.GetRow(i)
	for k, j := range cols {
		yij := vals.Get(k)
		g, b := real(yij), imag(yij)
		th := s.va[i] - s.va[j]
		vj := s.vm[j]
		p += vi * vj * (g*math.Cos(th) + b*math.Sin(th))
		q += vi * vj * (g*math.Sin(th) - b*math.Cos(th))
	}
	return p, q
}

// mismatch 计算当前状态的功率失配
// 返回:
//
//	最大绝对失配（p.u.）、各节点有功失配、各节点无功失配
//	（平衡节点失配为0；PV节点无功失配为0）
func (s *state) mismatch() (maxMis float64, dP, dQ []float64) {
	dP = make([]float64, s.n)
	dQ = make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		if i == s.slack {
			continue
		}
		p, q := s.injection(i)
		dP[i] = s.pSpec[i] - p
		if a := math.Abs(dP[i]); a > maxMis {
			maxMis = a
		}
		if s.busType[i] == types.BusPQ {
			dQ[i] = s.qSpec[i] - q
			if a := math.Abs(dQ[i]); a > maxMis {
				maxMis = a
			}
		}
	}
	return maxMis, dP, dQ
}

// enforcePVLimits 检查PV节点无功限值，越限则切换为PQ并固定在限值上
// 切换记录为可归因的离散事件。返回是否发生了切换。
func (s *state) enforcePVLimits(iter int) bool {
	switched := false
	for i := 0; i < s.n; i++ {
		if s.busType[i] != types.BusPV {
			continue
		}
		_, q := s.injection(i)
		var limit string
		var qFix float64
		switch {
		case q > s.qMax[i]:
			limit, qFix = "Qmax", s.qMax[i]
		case q < s.qMin[i]:
			limit, qFix = "Qmin", s.qMin[i]
		default:
			continue
		}
		s.busType[i] = types.BusPQ
		s.qSpec[i] = qFix
		s.events = append(s.events, SwitchEvent{
			NodeID:    s.idx.ID(i),
			Iteration: iter,
			Limit:     limit,
			QMvar:     qFix * s.baseMVA,
		})
		s.trace.add("PV→PQ切换", "Q∉[Qmin,Qmax]",
			fmt.Sprintf("节点=%s, iter=%d, Q=%.4f p.u.", s.idx.ID(i), iter, q),
			fmt.Sprintf("固定 %s=%.4f p.u.", limit, qFix))
		switched = true
	}
	return switched
}

// pvpqIndex 返回非平衡节点索引列表与PQ节点索引列表（均升序）
// 未知量排序: [θ(非平衡); Vm(PQ)]，每次PV→PQ切换后重新生成。
func (s *state) pvpqIndex() (pvpq, pq []int) {
	for i := 0; i < s.n; i++ {
		if i == s.slack {
			continue
		}
		pvpq = append(pvpq, i)
		if s.busType[i] == types.BusPQ {
			pq = append(pq, i)
		}
	}
	return pvpq, pq
}

// complexVoltage 当前状态的复数电压（p.u.）
func (s *state) complexVoltage(i int) complex128 {
	return cmplx.Rect(s.vm[i], s.va[i])
}
