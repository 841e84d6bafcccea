package shortcircuit

// TraceLevel 计算过程记录级别
type TraceLevel uint8

const (
	TraceOff     TraceLevel = iota // 不记录
	TraceSummary                   // 关键公式与结果
	TraceFull                      // 含中间代入值
)

// Step 一条具名计算步骤记录（审计/证明文档的原始素材）
type Step struct {
	Name    string // 步骤名称
	Formula string // 公式引用
	Detail  string // 代入值
	Result  string // 计算结果
}

// Trace 按值追加的只读计算过程记录，绝不反向参与计算
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
