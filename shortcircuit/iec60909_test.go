package shortcircuit

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powergrid/maths"
	"powergrid/types"
)

// radialNet 单电源辐射网: 电源节点A（内阻抗0.5+1.2j Ω），
// 线路L1（0.2+0.5j Ω）接负载节点B。15 kV，基准10 MVA。
func radialNet(t *testing.T) *types.NetworkGraph {
	t.Helper()
	g := types.NewNetworkGraph()
	require.NoError(t, g.AddNode(types.Node{
		ID: "A", Type: types.BusSlack, UnKV: 15, VSetPU: 1.0,
		SourceR: 0.5, SourceX: 1.2, InService: true,
	}))
	require.NoError(t, g.AddNode(types.Node{ID: "B", Type: types.BusPQ, UnKV: 15, InService: true}))
	require.NoError(t, g.AddBranch(types.Branch{
		ID: "L1", Type: types.BranchLine, From: "A", To: "B",
		ROhmPerKm: 0.2, XOhmPerKm: 0.5, LengthKm: 1, InService: true,
	}))
	return g
}

func scInput(node string, ft types.FaultType) Input {
	return Input{
		FaultNode:        node,
		Type:             ft,
		BaseMVA:          10,
		CFactor:          types.DefaultCFactor,
		ThermalDurationS: 1,
		BreakingTimeS:    0.1,
	}
}

// TestThreePhaseReference 规范参考场景: Z1 = 0.5+1.2j Ω, Un = 15 kV, c = 1.10
// → Ikss ≈ c·Un/(√3·|Z1|)，手算参考值对照到4位有效数字。
func TestThreePhaseReference(t *testing.T) {
	g := radialNet(t)
	res, err := Solve(g, scInput("A", types.FaultThreePhase))
	require.NoError(t, err)

	z1 := complex(0.5, 1.2)
	assert.InDelta(t, real(z1), real(res.Z1Ohm), 1e-9)
	assert.InDelta(t, imag(z1), imag(res.Z1Ohm), 1e-9)
	assert.Equal(t, res.Z1Ohm, res.ZeqOhm, "三相故障只用正序阻抗")

	// 手算参考（|Z1| = 1.3 Ω）
	ikss := 1.10 * 15 / (math.Sqrt(3) * 1.3) // 7.328 kA
	kappa := 1.02 + 0.98*math.Exp(-3*0.5/1.2)
	require.InEpsilon(t, ikss, res.IkssKA, 1e-4, "Ikss 4位有效数字")
	assert.InEpsilon(t, kappa, res.Kappa, 1e-4)
	assert.InEpsilon(t, kappa*math.Sqrt2*ikss, res.IpKA, 1e-4)
	assert.InEpsilon(t, ikss, res.IthKA, 1e-4, "t_th=1s 时 Ith=Ikss")
	assert.InEpsilon(t, math.Sqrt(3)*15*ikss, res.SkMVA, 1e-4)
	assert.InEpsilon(t, 0.5/1.2, res.RXRatio, 1e-9)

	// 开断电流介于 Ikss 与 √3·Ikss 之间
	assert.Greater(t, res.IbKA, res.IkssKA)
	assert.Less(t, res.IbKA, math.Sqrt(3)*ikss*1.0001)

	// 故障点残压为零
	assert.InDelta(t, 0, cmplx.Abs(res.VPostPU["A"]), 1e-12)
}

func TestThreePhaseDownstreamNode(t *testing.T) {
	g := radialNet(t)
	res, err := Solve(g, scInput("B", types.FaultThreePhase))
	require.NoError(t, err)

	// B点戴维南阻抗 = 电源内阻抗 + 线路阻抗
	z1 := complex(0.7, 1.7)
	assert.InDelta(t, real(z1), real(res.Z1Ohm), 1e-9)
	assert.InDelta(t, imag(z1), imag(res.Z1Ohm), 1e-9)
	assert.InEpsilon(t, 1.10*15/(math.Sqrt(3)*cmplx.Abs(z1)), res.IkssKA, 1e-9)

	// 距电源越远，故障电流越小
	atSource, err := Solve(g, scInput("A", types.FaultThreePhase))
	require.NoError(t, err)
	assert.Less(t, res.IkssKA, atSource.IkssKA)

	// 故障点残压为零，电源点残压介于0与c之间
	assert.InDelta(t, 0, cmplx.Abs(res.VPostPU["B"]), 1e-12)
	va := cmplx.Abs(res.VPostPU["A"])
	assert.Greater(t, va, 0.0)
	assert.Less(t, va, 1.10)
}

// seqMatrix 构造对角序阻抗矩阵（p.u.）
func seqMatrix(n int, z complex128) maths.Matrix[complex128] {
	m := maths.NewDenseMatrix[complex128](n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, z)
	}
	return m
}

func TestUnbalancedFaultTypes(t *testing.T) {
	g := radialNet(t)
	zbase := 22.5
	z2 := complex(0.5, 1.2) / complex(zbase, 0) // 与正序相同的负序
	z0 := complex(1.5, 3.6) / complex(zbase, 0) // 零序取3倍

	in := scInput("A", types.FaultTwoPhase)
	in.Z2 = seqMatrix(2, z2)
	twoPh, err := Solve(g, in)
	require.NoError(t, err)
	// Zeq = Z1+Z2 = 2·Z1, vf=1 → Ikss = c·Un/(2|Z1|)
	assert.InEpsilon(t, 1.10*15/(2*1.3), twoPh.IkssKA, 1e-9)

	in = scInput("A", types.FaultSinglePhaseGround)
	in.Z2 = seqMatrix(2, z2)
	in.Z0 = seqMatrix(2, z0)
	onePhG, err := Solve(g, in)
	require.NoError(t, err)
	// Zeq = Z1+Z2+Z0 = 5·Z1, vf=√3 → Ikss = √3·c·Un/(5|Z1|)
	assert.InEpsilon(t, math.Sqrt(3)*1.10*15/(5*1.3), onePhG.IkssKA, 1e-9)

	in = scInput("A", types.FaultTwoPhaseGround)
	in.Z2 = seqMatrix(2, z2)
	in.Z0 = seqMatrix(2, z0)
	twoPhG, err := Solve(g, in)
	require.NoError(t, err)
	// Zeq = Z1 + Z2·Z0/(Z2+Z0) = Z1·(1 + 3/4) = 1.75·Z1
	assert.InEpsilon(t, 1.10*15/(1.75*1.3), twoPhG.IkssKA, 1e-9)
}

func TestConfigErrors(t *testing.T) {
	g := radialNet(t)

	_, err := Solve(g, scInput("X", types.FaultThreePhase))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig), "未知故障节点")

	in := scInput("A", types.FaultThreePhase)
	in.CFactor = 0
	_, err = Solve(g, in)
	assert.True(t, errors.Is(err, ErrConfig))

	// 接地故障缺少序网数据: 立即失败，绝不默认
	in = scInput("A", types.FaultSinglePhaseGround)
	_, err = Solve(g, in)
	assert.True(t, errors.Is(err, ErrConfig))

	in = scInput("A", types.FaultTwoPhase)
	_, err = Solve(g, in)
	assert.True(t, errors.Is(err, ErrConfig))

	// 序阻抗矩阵维度不符
	in = scInput("A", types.FaultTwoPhase)
	in.Z2 = seqMatrix(3, complex(0.02, 0.05))
	_, err = Solve(g, in)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestDegenerateNetwork(t *testing.T) {
	// 无电源内阻抗 → Y-bus无接地路径，矩阵奇异
	g := types.NewNetworkGraph()
	require.NoError(t, g.AddNode(types.Node{ID: "A", Type: types.BusSlack, UnKV: 15, VSetPU: 1.0, InService: true}))
	require.NoError(t, g.AddNode(types.Node{ID: "B", Type: types.BusPQ, UnKV: 15, InService: true}))
	require.NoError(t, g.AddBranch(types.Branch{
		ID: "L1", Type: types.BranchLine, From: "A", To: "B",
		ROhmPerKm: 0.2, XOhmPerKm: 0.5, LengthKm: 1, InService: true,
	}))
	_, err := Solve(g, scInput("B", types.FaultThreePhase))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerate))
}

func TestSweepCoversAllNodes(t *testing.T) {
	g := radialNet(t)
	results, err := Sweep(g, scInput("", types.FaultThreePhase))
	require.NoError(t, err)
	require.Len(t, results, 2)
	// 节点ID升序
	assert.Equal(t, "A", results[0].FaultNode)
	assert.Equal(t, "B", results[1].FaultNode)
	assert.Greater(t, results[0].IkssKA, results[1].IkssKA)
}

func TestDeterminism(t *testing.T) {
	g := radialNet(t)
	in := scInput("B", types.FaultThreePhase)
	in.Trace = TraceSummary
	res1, err := Solve(g, in)
	require.NoError(t, err)
	res2, err := Solve(g, in)
	require.NoError(t, err)
	assert.Equal(t, res1, res2)
}
