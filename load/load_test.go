package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powergrid/powerflow"
	"powergrid/shortcircuit"
	"powergrid/types"
)

const caseYAML = `
base_mva: 10
nodes:
  - id: A
    type: slack
    un_kv: 15
    source_r_ohm: 0.5
    source_x_ohm: 1.2
  - id: B
    type: pq
    un_kv: 15
    p_mw: -2
    q_mvar: -1
branches:
  - id: L1
    type: line
    from: A
    to: B
    r_ohm_per_km: 0.1
    x_ohm_per_km: 0.2
    length_km: 1
    rated_a: 400
powerflow:
  method: newton
  tolerance: 1e-9
  trace: summary
shortcircuit:
  fault_node: B
  fault_type: 3ph
  c_factor: 1.1
  thermal_duration_s: 1.0
  breaking_time_s: 0.1
`

func TestParseFullCase(t *testing.T) {
	c, err := Parse([]byte(caseYAML))
	require.NoError(t, err)

	// 拓扑
	require.NotNil(t, c.Net)
	assert.Equal(t, []string{"A", "B"}, c.Net.NodeIDs())
	a := c.Net.Node("A")
	assert.Equal(t, types.BusSlack, a.Type)
	assert.Equal(t, 1.0, a.VSetPU, "Slack电压设定默认1.0")
	assert.True(t, a.HasSource())
	b := c.Net.Node("B")
	assert.Equal(t, -2.0, b.PMW)
	assert.True(t, b.InService)

	// 潮流输入: 文件值覆盖，其余显式默认
	assert.Equal(t, powerflow.MethodNewton, c.Method)
	assert.Equal(t, 10.0, c.PowerFlow.BaseMVA)
	assert.Equal(t, 1e-9, c.PowerFlow.Options.Tolerance)
	assert.Equal(t, types.DefaultMaxIter, c.PowerFlow.Options.MaxIter)
	assert.Equal(t, powerflow.TraceSummary, c.PowerFlow.Options.Trace)

	// 短路输入
	require.NotNil(t, c.ShortCircuit)
	assert.Equal(t, "B", c.ShortCircuit.FaultNode)
	assert.Equal(t, types.FaultThreePhase, c.ShortCircuit.Type)
	assert.Equal(t, 1.1, c.ShortCircuit.CFactor)

	// 装载结果可直接求解
	res, err := powerflow.Solve(c.Method, c.Net, c.PowerFlow)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	sc, err := shortcircuit.Solve(c.Net, *c.ShortCircuit)
	require.NoError(t, err)
	assert.Greater(t, sc.IkssKA, 0.0)
}

func TestParseGaussDefaultIterations(t *testing.T) {
	yml := `
base_mva: 10
nodes:
  - {id: A, type: slack, un_kv: 15}
  - {id: B, type: pq, un_kv: 15, p_mw: -1}
branches:
  - {id: L1, type: line, from: A, to: B, r_ohm_per_km: 0.1, x_ohm_per_km: 0.2, length_km: 1}
powerflow:
  method: gauss
`
	c, err := Parse([]byte(yml))
	require.NoError(t, err)
	assert.Equal(t, powerflow.MethodGaussSeidel, c.Method)
	assert.Equal(t, types.GaussSeidelMaxIter, c.PowerFlow.Options.MaxIter)
}

func TestParseSequenceData(t *testing.T) {
	yml := `
base_mva: 10
nodes:
  - {id: A, type: slack, un_kv: 15, source_r_ohm: 0.5, source_x_ohm: 1.2}
  - {id: B, type: pq, un_kv: 15}
branches:
  - {id: L1, type: line, from: A, to: B, r_ohm_per_km: 0.1, x_ohm_per_km: 0.2, length_km: 1}
shortcircuit:
  fault_node: A
  fault_type: 1ph-g
  sequence:
    - {node: A, z2_r_ohm: 0.5, z2_x_ohm: 1.2, z0_r_ohm: 1.5, z0_x_ohm: 3.6}
    - {node: B, z2_r_ohm: 0.7, z2_x_ohm: 1.7, z0_r_ohm: 2.1, z0_x_ohm: 5.1}
`
	c, err := Parse([]byte(yml))
	require.NoError(t, err)
	require.NotNil(t, c.ShortCircuit)
	require.NotNil(t, c.ShortCircuit.Z2)
	require.NotNil(t, c.ShortCircuit.Z0)

	// 序阻抗按节点电压等级折算p.u.
	zbase := 22.5
	assert.InDelta(t, 0.5/zbase, real(c.ShortCircuit.Z2.Get(0, 0)), 1e-12)
	assert.InDelta(t, 3.6/zbase, imag(c.ShortCircuit.Z0.Get(0, 0)), 1e-12)

	// 默认值显式补齐
	assert.Equal(t, types.DefaultCFactor, c.ShortCircuit.CFactor)

	_, err = shortcircuit.Solve(c.Net, *c.ShortCircuit)
	require.NoError(t, err)
}

func TestFromFile(t *testing.T) {
	c, err := FromFile("testdata/radial.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, c.Net.NodeIDs())
	require.NotNil(t, c.ShortCircuit)
	assert.Equal(t, "B", c.ShortCircuit.FaultNode)

	_, err = FromFile("testdata/missing.yaml")
	require.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	// 缺少基准容量
	_, err := Parse([]byte(`nodes: []`))
	require.Error(t, err)

	// 未知母线类型
	_, err = Parse([]byte(`
base_mva: 10
nodes:
  - {id: A, type: generator, un_kv: 15}
`))
	require.Error(t, err)

	// 支路引用未知节点
	_, err = Parse([]byte(`
base_mva: 10
nodes:
  - {id: A, type: slack, un_kv: 15}
branches:
  - {id: L1, type: line, from: A, to: X, r_ohm_per_km: 0.1, x_ohm_per_km: 0.2, length_km: 1}
`))
	require.Error(t, err)

	// 接地故障缺少序阻抗覆盖
	_, err = Parse([]byte(`
base_mva: 10
nodes:
  - {id: A, type: slack, un_kv: 15, source_x_ohm: 1}
  - {id: B, type: pq, un_kv: 15}
branches:
  - {id: L1, type: line, from: A, to: B, r_ohm_per_km: 0.1, x_ohm_per_km: 0.2, length_km: 1}
shortcircuit:
  fault_node: A
  fault_type: 1ph-g
  sequence:
    - {node: A, z2_x_ohm: 1.2, z0_x_ohm: 3.6}
`))
	require.Error(t, err, "节点B缺少序阻抗数据")

	// 非法记录级别
	_, err = Parse([]byte(`
base_mva: 10
nodes:
  - {id: A, type: slack, un_kv: 15}
powerflow:
  trace: verbose
`))
	require.Error(t, err)
}
