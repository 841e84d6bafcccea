package powerflow

import "fmt"

// Step 一条具名计算步骤记录（审计/证明文档的原始素材）
type Step struct {
	Name    string // 步骤名称
	Formula string // 公式引用
	Detail  string // 代入值
	Result  string // 计算结果
}

// Trace 按值追加的只读计算过程记录
// 记录只从求解器内部状态投影生成，绝不反向参与计算。
type Trace struct {
	Level TraceLevel
	Steps []Step
}

// newTrace 创建指定级别的记录（TraceOff返回nil）
func newTrace(level TraceLevel) *Trace {
	if level == TraceOff {
		return nil
	}
	return &Trace{Level: level}
}

// add 追加一条摘要级步骤
func (tr *Trace) add(name, formula, detail, result string) {
	if tr == nil {
		return
	}
	tr.Steps = append(tr.Steps, Step{Name: name, Formula: formula, Detail: detail, Result: result})
}

// addFull 追加一条完整级步骤（仅TraceFull记录）
func (tr *Trace) addFull(name, formula, detail, result string) {
	if tr == nil || tr.Level < TraceFull {
		return
	}
	tr.Steps = append(tr.Steps, Step{Name: name, Formula: formula, Detail: detail, Result: result})
}

// addIteration 记录一次迭代的失配摘要
func (tr *Trace) addIteration(iter int, maxMis float64) {
	tr.addFull(
		fmt.Sprintf("迭代 %d", iter),
		"max|ΔP,ΔQ|",
		fmt.Sprintf("iter=%d", iter),
		fmt.Sprintf("%.3e", maxMis),
	)
}
