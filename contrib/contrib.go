// Package contrib 把总故障电流或节点潮流电流分解为按电源、按支路的
// 可加份额。分解只复用求解阶段已产出的电压状态与导纳装配数据，
// 绝不重新迭代求解；份额按ID升序输出，复数相量求和严格等于总电流。
package contrib

import (
	"errors"

	"powergrid/shortcircuit"
)

// ErrInput 分解输入不完整（缺少残压状态、结果未收敛、未知节点）
var ErrInput = errors.New("电流分解输入非法")

// Breakdown 电流分量分解结果
// 全部相量折算到参考节点（故障点或目标节点）的电压等级。
type Breakdown struct {
	Node     string                      // 参考节点ID
	TotalKA  complex128                  // 总电流相量（kA）
	Sources  []shortcircuit.Contribution // 按电源份额（ID升序）
	Branches []shortcircuit.Contribution // 按支路份额（ID升序）
}
