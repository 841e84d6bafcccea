package types

import (
	"fmt"
	"sort"
)

// NetworkGraph 网络拓扑图（装配完成后视为不可变快照）
// 节点与支路按ID哈希存储，所有需要确定性输出的地方统一按ID排序遍历。
type NetworkGraph struct {
	nodes    map[string]*Node
	branches map[string]*Branch
}

// NewNetworkGraph 创建空拓扑图
func NewNetworkGraph() *NetworkGraph {
	return &NetworkGraph{
		nodes:    map[string]*Node{},
		branches: map[string]*Branch{},
	}
}

// AddNode 添加节点（重复ID报错）
func (g *NetworkGraph) AddNode(n Node) error {
	if err := n.Validate(); err != nil {
		return err
	}
	if _, ok := g.nodes[n.ID]; ok {
		return fmt.Errorf("节点重复创建失败: %s", n.ID)
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddBranch 添加支路（重复ID或端点不存在报错）
func (g *NetworkGraph) AddBranch(b Branch) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if _, ok := g.branches[b.ID]; ok {
		return fmt.Errorf("支路重复创建失败: %s", b.ID)
	}
	if _, ok := g.nodes[b.From]; !ok {
		return fmt.Errorf("支路 %s 起始节点不存在: %s", b.ID, b.From)
	}
	if _, ok := g.nodes[b.To]; !ok {
		return fmt.Errorf("支路 %s 末端节点不存在: %s", b.ID, b.To)
	}
	g.branches[b.ID] = &b
	return nil
}

// Node 按ID查找节点（不存在返回nil）
func (g *NetworkGraph) Node(id string) *Node {
	return g.nodes[id]
}

// Branch 按ID查找支路（不存在返回nil）
func (g *NetworkGraph) Branch(id string) *Branch {
	return g.branches[id]
}

// NodeCount 节点总数
func (g *NetworkGraph) NodeCount() int { return len(g.nodes) }

// BranchCount 支路总数
func (g *NetworkGraph) BranchCount() int { return len(g.branches) }

// NodeIDs 返回全部节点ID（按ID升序）
func (g *NetworkGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InServiceNodeIDs 返回投运节点ID（按ID升序，矩阵索引的规范顺序）
func (g *NetworkGraph) InServiceNodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id, n := range g.nodes {
		if n.InService {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// BranchIDs 返回全部支路ID（按ID升序）
func (g *NetworkGraph) BranchIDs() []string {
	ids := make([]string, 0, len(g.branches))
	for id := range g.branches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// InServiceBranchIDs 返回两端节点均投运的投运支路ID（按ID升序）
func (g *NetworkGraph) InServiceBranchIDs() []string {
	ids := make([]string, 0, len(g.branches))
	for id, b := range g.branches {
		if !b.InService {
			continue
		}
		from, to := g.nodes[b.From], g.nodes[b.To]
		if from == nil || to == nil || !from.InService || !to.InService {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SlackID 返回平衡节点ID（投运的Slack节点；数量不为1时报错）
func (g *NetworkGraph) SlackID() (string, error) {
	found := ""
	for _, id := range g.InServiceNodeIDs() {
		if g.nodes[id].Type == BusSlack {
			if found != "" {
				return "", fmt.Errorf("存在多个平衡节点: %s, %s", found, id)
			}
			found = id
		}
	}
	if found == "" {
		return "", fmt.Errorf("缺少平衡节点")
	}
	return found, nil
}

// Validate 拓扑整体校验
// 检查项:
//  1. 节点与支路各自的参数合法性（构建时已检查，此处兜底）
//  2. 有且仅有一个投运平衡节点
//  3. 投运节点电气连通（孤岛会导致导纳矩阵奇异，提前以配置错误报出）
func (g *NetworkGraph) Validate() error {
	for _, id := range g.NodeIDs() {
		if err := g.nodes[id].Validate(); err != nil {
			return err
		}
	}
	for _, id := range g.BranchIDs() {
		if err := g.branches[id].Validate(); err != nil {
			return err
		}
	}
	if _, err := g.SlackID(); err != nil {
		return err
	}
	if islands := g.Islands(); len(islands) > 1 {
		return fmt.Errorf("网络电气不连通: %d 个孤岛, 首个孤岛节点 %v", len(islands), islands[0])
	}
	return nil
}

// Islands 按投运支路对投运节点做连通分量划分
// 返回的每个孤岛内节点按ID升序，孤岛列表按首节点ID升序。
func (g *NetworkGraph) Islands() [][]string {
	// 邻接表（仅投运支路）
	adj := map[string][]string{}
	for _, id := range g.InServiceBranchIDs() {
		b := g.branches[id]
		adj[b.From] = append(adj[b.From], b.To)
		adj[b.To] = append(adj[b.To], b.From)
	}
	visited := map[string]bool{}
	var islands [][]string
	for _, start := range g.InServiceNodeIDs() {
		if visited[start] {
			continue
		}
		// BFS遍历当前连通分量
		island := []string{}
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			island = append(island, curr)
			for _, next := range adj[curr] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Strings(island)
		islands = append(islands, island)
	}
	sort.Slice(islands, func(i, j int) bool { return islands[i][0] < islands[j][0] })
	return islands
}
