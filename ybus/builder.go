// Package ybus 从网络拓扑装配节点导纳矩阵（Y-bus），并提供其逆矩阵（Z-bus）。
// 潮流与短路求解共用同一套装配与索引基础设施。
package ybus

import (
	"errors"
	"fmt"

	"powergrid/maths"
	"powergrid/types"
)

// ErrSingular 导纳矩阵不可逆（网络电气不连通或病态配置）
var ErrSingular = errors.New("导纳矩阵奇异")

// Index 节点ID与矩阵索引的双向映射
// 装配时对投运节点按ID排序并赋予稳定整数索引，
// 热路径只使用整数索引，ID查找只发生在装配与结果输出阶段。
type Index struct {
	ids []string
	pos map[string]int
}

// newIndex 从投运节点ID列表构建索引
func newIndex(ids []string) *Index {
	idx := &Index{ids: ids, pos: make(map[string]int, len(ids))}
	for i, id := range ids {
		idx.pos[id] = i
	}
	return idx
}

// Size 矩阵维度（投运节点数量）
func (idx *Index) Size() int { return len(idx.ids) }

// IDs 按矩阵索引顺序返回节点ID列表
func (idx *Index) IDs() []string { return idx.ids }

// Of 返回节点ID对应的矩阵索引（不存在返回-1）
func (idx *Index) Of(id string) int {
	if i, ok := idx.pos[id]; ok {
		return i
	}
	return -1
}

// ID 返回矩阵索引对应的节点ID
func (idx *Index) ID(i int) string { return idx.ids[i] }

// Options 装配选项
type Options struct {
	BaseMVA       float64               // 基准容量（MVA）
	WithSources   bool                  // 是否加盖电源内阻抗（短路计算需要接地路径）
	TapOverride   map[string]float64    // 变压器分接头变比覆盖（按支路ID）
	ShuntOverride map[string]complex128 // 节点附加并联导纳（p.u.，按节点ID，电容补偿等）
}

// Build 从网络拓扑装配导纳矩阵
// 返回:
//
//	节点索引映射、复数Y-bus矩阵（稀疏存储）、错误信息
//
// 装配规则（π型等值电路）:
//  1. 每条投运支路的串联导纳 ys=1/(R+jX)：
//     对角元累加，非对角元累减；变压器分接头变比t作用于起始侧
//     （diag_from += ys/t², 非对角 -= ys/t, diag_to += ys）
//  2. 并联电纳两端各取一半累加到对角元
//  3. ShuntOverride 的节点附加并联导纳累加到对角元
//  4. WithSources 时平衡/PV节点的电源内导纳累加到对角元（接地路径）
//  5. 退运支路、退运节点不参与装配
func Build(net *types.NetworkGraph, opts Options) (*Index, maths.Matrix[complex128], error) {
	if opts.BaseMVA <= 0 {
		return nil, nil, fmt.Errorf("基准容量必须为正: %g", opts.BaseMVA)
	}
	idx := newIndex(net.InServiceNodeIDs())
	if idx.Size() == 0 {
		return nil, nil, fmt.Errorf("网络不含投运节点")
	}
	y := maths.NewSparseMatrix[complex128](idx.Size(), idx.Size())

	// 1. 支路加盖
	for _, bid := range net.InServiceBranchIDs() {
		b := net.Branch(bid)
		i, j := idx.Of(b.From), idx.Of(b.To)
		// 基准阻抗取起始节点电压等级
		zbase := net.Node(b.From).ZBaseOhm(opts.BaseMVA)
		ys := b.SeriesAdmittancePU(zbase)
		ysh := b.ShuntAdmittancePU(zbase)
		t := complex(tapOf(b, opts.TapOverride), 0)

		// 串联导纳加盖（变比作用于起始侧）
		y.Increment(i, i, ys/(t*t))
		y.Increment(j, j, ys)
		y.Increment(i, j, -ys/t)
		y.Increment(j, i, -ys/t)

		// 并联电纳两端各半
		y.Increment(i, i, ysh/2/(t*t))
		y.Increment(j, j, ysh/2)
	}

	// 2. 节点附加并联导纳加盖（无功补偿等）
	for nid, ysh := range opts.ShuntOverride {
		if i := idx.Of(nid); i >= 0 {
			y.Increment(i, i, ysh)
		}
	}

	// 3. 电源内阻抗加盖（短路路径）
	if opts.WithSources {
		for _, nid := range idx.IDs() {
			n := net.Node(nid)
			if n.HasSource() {
				y.Increment(idx.Of(nid), idx.Of(nid), n.SourceAdmittancePU(opts.BaseMVA))
			}
		}
	}
	return idx, y, nil
}

// tapOf 支路有效变比（覆盖优先）
func tapOf(b *types.Branch, override map[string]float64) float64 {
	if override != nil {
		if t, ok := override[b.ID]; ok && t > 0 {
			return t
		}
	}
	return b.TapRatio()
}
