// Package load 解析YAML算例文件，物化网络拓扑与求解输入。
// 默认值全部在装载阶段显式补齐，求解器内部绝不隐式取默认。
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"powergrid/maths"
	"powergrid/powerflow"
	"powergrid/shortcircuit"
	"powergrid/types"
)

// Case 装载完成的算例：不可变拓扑快照 + 求解输入
type Case struct {
	Net          *types.NetworkGraph
	Method       string              // 潮流求解方法（newton/gauss/fdlf）
	PowerFlow    powerflow.Input     // 潮流求解输入
	ShortCircuit *shortcircuit.Input // 短路计算输入（算例未定义时为nil）
}

// 文件schema（字段命名与领域量纲后缀一致）
type fileSchema struct {
	BaseMVA      float64         `yaml:"base_mva"`
	Nodes        []nodeSchema    `yaml:"nodes"`
	Branches     []branchSchema  `yaml:"branches"`
	PowerFlow    *pfSchema       `yaml:"powerflow"`
	ShortCircuit *scSchema       `yaml:"shortcircuit"`
}

type nodeSchema struct {
	ID           string  `yaml:"id"`
	Type         string  `yaml:"type"`
	UnKV         float64 `yaml:"un_kv"`
	PMW          float64 `yaml:"p_mw"`
	QMvar        float64 `yaml:"q_mvar"`
	VSetPU       float64 `yaml:"v_set_pu"`
	AngleRad     float64 `yaml:"angle_rad"`
	QMinMvar     float64 `yaml:"q_min_mvar"`
	QMaxMvar     float64 `yaml:"q_max_mvar"`
	SourceROhm   float64 `yaml:"source_r_ohm"`
	SourceXOhm   float64 `yaml:"source_x_ohm"`
	OutOfService bool    `yaml:"out_of_service"`
}

type branchSchema struct {
	ID           string  `yaml:"id"`
	Type         string  `yaml:"type"`
	From         string  `yaml:"from"`
	To           string  `yaml:"to"`
	ROhmPerKm    float64 `yaml:"r_ohm_per_km"`
	XOhmPerKm    float64 `yaml:"x_ohm_per_km"`
	BuSPerKm     float64 `yaml:"b_us_per_km"`
	LengthKm     float64 `yaml:"length_km"`
	RatedA       float64 `yaml:"rated_a"`
	Tap          float64 `yaml:"tap"`
	OutOfService bool    `yaml:"out_of_service"`
}

type pfSchema struct {
	Method      string             `yaml:"method"`
	Tolerance   float64            `yaml:"tolerance"`
	MaxIter     int                `yaml:"max_iter"`
	Damping     float64            `yaml:"damping"`
	Trace       string             `yaml:"trace"`
	TapOverride map[string]float64 `yaml:"tap_override"`
}

type scSchema struct {
	FaultNode        string      `yaml:"fault_node"`
	FaultType        string      `yaml:"fault_type"`
	CFactor          float64     `yaml:"c_factor"`
	ThermalDurationS float64     `yaml:"thermal_duration_s"`
	BreakingTimeS    float64     `yaml:"breaking_time_s"`
	Trace            string      `yaml:"trace"`
	Sequence         []seqSchema `yaml:"sequence"`
}

type seqSchema struct {
	Node   string  `yaml:"node"`
	Z2ROhm float64 `yaml:"z2_r_ohm"`
	Z2XOhm float64 `yaml:"z2_x_ohm"`
	Z0ROhm float64 `yaml:"z0_r_ohm"`
	Z0XOhm float64 `yaml:"z0_x_ohm"`
}

// FromFile 从文件装载算例
func FromFile(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取算例文件: %w", err)
	}
	return Parse(data)
}

// Parse 解析YAML算例内容
func Parse(data []byte) (*Case, error) {
	var f fileSchema
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析算例: %w", err)
	}
	if f.BaseMVA <= 0 {
		return nil, fmt.Errorf("算例缺少有效基准容量 base_mva: %g", f.BaseMVA)
	}

	// 1. 拓扑物化
	net := types.NewNetworkGraph()
	for _, ns := range f.Nodes {
		n, err := buildNode(ns)
		if err != nil {
			return nil, err
		}
		if err := net.AddNode(n); err != nil {
			return nil, fmt.Errorf("节点 %s: %w", ns.ID, err)
		}
	}
	for _, bs := range f.Branches {
		b, err := buildBranch(bs)
		if err != nil {
			return nil, err
		}
		if err := net.AddBranch(b); err != nil {
			return nil, fmt.Errorf("支路 %s: %w", bs.ID, err)
		}
	}
	if err := net.Validate(); err != nil {
		return nil, err
	}

	c := &Case{Net: net, Method: powerflow.MethodNewton}

	// 2. 潮流输入（默认值显式补齐）
	pfIn := powerflow.Input{BaseMVA: f.BaseMVA, Options: powerflow.DefaultOptions()}
	if f.PowerFlow != nil {
		p := f.PowerFlow
		if p.Method != "" {
			c.Method = p.Method
		}
		if p.Tolerance > 0 {
			pfIn.Options.Tolerance = p.Tolerance
		}
		if p.MaxIter > 0 {
			pfIn.Options.MaxIter = p.MaxIter
		}
		if p.Damping > 0 {
			pfIn.Options.Damping = p.Damping
		}
		lvl, err := parseTrace(p.Trace)
		if err != nil {
			return nil, err
		}
		pfIn.Options.Trace = powerflow.TraceLevel(lvl)
		pfIn.TapOverride = p.TapOverride
	}
	// Gauss-Seidel收敛慢，默认迭代上限按方法调高
	if c.Method == powerflow.MethodGaussSeidel && (f.PowerFlow == nil || f.PowerFlow.MaxIter <= 0) {
		pfIn.Options.MaxIter = types.GaussSeidelMaxIter
	}
	c.PowerFlow = pfIn

	// 3. 短路输入（算例定义了才装载）
	if f.ShortCircuit != nil {
		scIn, err := buildShortCircuit(f.ShortCircuit, net, f.BaseMVA, pfIn.TapOverride)
		if err != nil {
			return nil, err
		}
		c.ShortCircuit = scIn
	}
	return c, nil
}

func buildNode(ns nodeSchema) (types.Node, error) {
	bt, err := types.ParseBusType(ns.Type)
	if err != nil {
		return types.Node{}, fmt.Errorf("节点 %s: %w", ns.ID, err)
	}
	vset := ns.VSetPU
	if vset == 0 && bt != types.BusPQ {
		vset = 1.0
	}
	return types.Node{
		ID:        ns.ID,
		Type:      bt,
		UnKV:      ns.UnKV,
		PMW:       ns.PMW,
		QMvar:     ns.QMvar,
		VSetPU:    vset,
		AngleRad:  ns.AngleRad,
		QMinMvar:  ns.QMinMvar,
		QMaxMvar:  ns.QMaxMvar,
		SourceR:   ns.SourceROhm,
		SourceX:   ns.SourceXOhm,
		InService: !ns.OutOfService,
	}, nil
}

func buildBranch(bs branchSchema) (types.Branch, error) {
	bt, err := types.ParseBranchType(bs.Type)
	if err != nil {
		return types.Branch{}, fmt.Errorf("支路 %s: %w", bs.ID, err)
	}
	return types.Branch{
		ID:        bs.ID,
		Type:      bt,
		From:      bs.From,
		To:        bs.To,
		ROhmPerKm: bs.ROhmPerKm,
		XOhmPerKm: bs.XOhmPerKm,
		BuSPerKm:  bs.BuSPerKm,
		LengthKm:  bs.LengthKm,
		RatedA:    bs.RatedA,
		Tap:       bs.Tap,
		InService: !bs.OutOfService,
	}, nil
}

func buildShortCircuit(sc *scSchema, net *types.NetworkGraph, baseMVA float64, tapOv map[string]float64) (*shortcircuit.Input, error) {
	ft, err := types.ParseFaultType(sc.FaultType)
	if err != nil {
		return nil, err
	}
	in := &shortcircuit.Input{
		FaultNode:        sc.FaultNode,
		Type:             ft,
		BaseMVA:          baseMVA,
		CFactor:          sc.CFactor,
		ThermalDurationS: sc.ThermalDurationS,
		BreakingTimeS:    sc.BreakingTimeS,
		TapOverride:      tapOv,
	}
	// 默认值显式补齐
	if in.CFactor == 0 {
		in.CFactor = types.DefaultCFactor
	}
	if in.ThermalDurationS == 0 {
		in.ThermalDurationS = 1
	}
	if in.BreakingTimeS == 0 {
		in.BreakingTimeS = 0.1
	}
	lvl, err := parseTrace(sc.Trace)
	if err != nil {
		return nil, err
	}
	in.Trace = shortcircuit.TraceLevel(lvl)

	// 序阻抗数据: 需要的故障类型必须全节点覆盖（支持逐节点扫描），绝不近似
	if ft.NeedsNegativeSequence() || ft.NeedsZeroSequence() {
		z2, z0, err := buildSequence(sc.Sequence, net, baseMVA, ft)
		if err != nil {
			return nil, err
		}
		if ft.NeedsNegativeSequence() {
			in.Z2 = z2
		}
		if ft.NeedsZeroSequence() {
			in.Z0 = z0
		}
	}
	return in, nil
}

// buildSequence 从逐节点序阻抗表构建对角序阻抗矩阵（p.u.，与矩阵索引同序）
func buildSequence(entries []seqSchema, net *types.NetworkGraph, baseMVA float64, ft types.FaultType) (z2, z0 maths.Matrix[complex128], err error) {
	byNode := make(map[string]seqSchema, len(entries))
	for _, e := range entries {
		if net.Node(e.Node) == nil {
			return nil, nil, fmt.Errorf("序阻抗表引用未知节点: %q", e.Node)
		}
		byNode[e.Node] = e
	}
	ids := net.InServiceNodeIDs()
	z2 = maths.NewDenseMatrix[complex128](len(ids), len(ids))
	z0 = maths.NewDenseMatrix[complex128](len(ids), len(ids))
	for i, id := range ids {
		e, ok := byNode[id]
		if !ok {
			return nil, nil, fmt.Errorf("故障类型 %s 需要节点 %s 的序阻抗数据", ft, id)
		}
		zbase := net.Node(id).ZBaseOhm(baseMVA)
		z2.Set(i, i, complex(e.Z2ROhm, e.Z2XOhm)/complex(zbase, 0))
		z0.Set(i, i, complex(e.Z0ROhm, e.Z0XOhm)/complex(zbase, 0))
	}
	return z2, z0, nil
}

// parseTrace 解析记录级别（空串=off）
func parseTrace(s string) (uint8, error) {
	switch s {
	case "", "off":
		return 0, nil
	case "summary":
		return 1, nil
	case "full":
		return 2, nil
	}
	return 0, fmt.Errorf("未知记录级别: %q", s)
}
