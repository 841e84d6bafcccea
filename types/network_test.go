package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoBusNet 构造最小的两节点测试网络（平衡节点A + PQ负载B）
func twoBusNet(t *testing.T) *NetworkGraph {
	t.Helper()
	g := NewNetworkGraph()
	require.NoError(t, g.AddNode(Node{ID: "A", Type: BusSlack, UnKV: 15, VSetPU: 1.0, InService: true}))
	require.NoError(t, g.AddNode(Node{ID: "B", Type: BusPQ, UnKV: 15, PMW: -2, QMvar: -1, InService: true}))
	require.NoError(t, g.AddBranch(Branch{
		ID: "L1", Type: BranchLine, From: "A", To: "B",
		ROhmPerKm: 0.1, XOhmPerKm: 0.2, LengthKm: 1, RatedA: 400, InService: true,
	}))
	return g
}

func TestNetworkGraphDeterministicOrder(t *testing.T) {
	g := NewNetworkGraph()
	// 乱序插入，输出必须按ID排序
	for _, id := range []string{"N3", "N1", "N2"} {
		require.NoError(t, g.AddNode(Node{ID: id, Type: BusPQ, UnKV: 10, InService: true}))
	}
	assert.Equal(t, []string{"N1", "N2", "N3"}, g.NodeIDs())
	assert.Equal(t, []string{"N1", "N2", "N3"}, g.InServiceNodeIDs())
}

func TestNetworkGraphDuplicateAndUnknown(t *testing.T) {
	g := twoBusNet(t)
	// 重复节点/支路
	assert.Error(t, g.AddNode(Node{ID: "A", Type: BusPQ, UnKV: 15, InService: true}))
	assert.Error(t, g.AddBranch(Branch{ID: "L1", From: "A", To: "B", InService: true}))
	// 端点不存在
	assert.Error(t, g.AddBranch(Branch{ID: "L2", From: "A", To: "X", InService: true}))
	// 自环
	assert.Error(t, g.AddBranch(Branch{ID: "L3", From: "A", To: "A", InService: true}))
}

func TestNetworkGraphValidate(t *testing.T) {
	g := twoBusNet(t)
	require.NoError(t, g.Validate())

	// 缺少平衡节点
	g2 := NewNetworkGraph()
	require.NoError(t, g2.AddNode(Node{ID: "A", Type: BusPQ, UnKV: 15, InService: true}))
	assert.Error(t, g2.Validate())

	// 多个平衡节点
	g3 := twoBusNet(t)
	require.NoError(t, g3.AddNode(Node{ID: "C", Type: BusSlack, UnKV: 15, VSetPU: 1.0, InService: true}))
	assert.Error(t, g3.Validate())
}

func TestNetworkGraphIslands(t *testing.T) {
	g := twoBusNet(t)
	// C节点无支路连接 → 形成孤岛
	require.NoError(t, g.AddNode(Node{ID: "C", Type: BusPQ, UnKV: 15, InService: true}))
	islands := g.Islands()
	require.Len(t, islands, 2)
	assert.Equal(t, []string{"A", "B"}, islands[0])
	assert.Equal(t, []string{"C"}, islands[1])
	assert.Error(t, g.Validate())
}

func TestNetworkGraphOutOfServiceBranch(t *testing.T) {
	g := twoBusNet(t)
	// 支路退运后两节点不再连通
	g.Branch("L1").InService = false
	assert.Empty(t, g.InServiceBranchIDs())
	assert.Len(t, g.Islands(), 2)
}

func TestBranchElectrical(t *testing.T) {
	b := Branch{
		ID: "L1", Type: BranchLine, From: "A", To: "B",
		ROhmPerKm: 0.1, XOhmPerKm: 0.2, LengthKm: 2, InService: true,
	}
	z := b.SeriesImpedanceOhm()
	assert.InDelta(t, 0.2, real(z), 1e-12)
	assert.InDelta(t, 0.4, imag(z), 1e-12)

	// 基准阻抗 22.5Ω (15kV, 10MVA) 下的标幺值
	y := b.SeriesAdmittancePU(22.5)
	zpu := 1 / y
	assert.InDelta(t, 0.2/22.5, real(zpu), 1e-12)
	assert.InDelta(t, 0.4/22.5, imag(zpu), 1e-12)

	// 开关等效支路：零阻抗按大导纳处理
	sw := Branch{ID: "S1", Type: BranchSwitch, From: "A", To: "B", InService: true}
	ysw := sw.SeriesAdmittancePU(22.5)
	assert.InDelta(t, SwitchAdmittance, real(ysw), 1e-9)
}

func TestNodeSourceAdmittance(t *testing.T) {
	n := Node{ID: "A", Type: BusSlack, UnKV: 15, VSetPU: 1.0, SourceR: 0.5, SourceX: 1.2, InService: true}
	require.True(t, n.HasSource())
	// Zbase = 15²/10 = 22.5Ω
	assert.InDelta(t, 22.5, n.ZBaseOhm(10), 1e-12)
	y := n.SourceAdmittancePU(10)
	zpu := 1 / y
	assert.InDelta(t, 0.5/22.5, real(zpu), 1e-12)
	assert.InDelta(t, 1.2/22.5, imag(zpu), 1e-12)
}
