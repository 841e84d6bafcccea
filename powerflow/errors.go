package powerflow

import "errors"

// 错误类别（调用方用 errors.Is 区分，不做字符串匹配）
//
// 注意：迭代超限不收敛不属于错误，以 Result.Converged=false 正常返回，
// 由调用方决定处理策略。
var (
	// ErrConfig 配置错误：容差/迭代上限/阻尼非法、初值节点不存在、拓扑校验失败
	ErrConfig = errors.New("潮流配置错误")
	// ErrDegenerate 数值退化：雅可比矩阵奇异、对角元为零等
	ErrDegenerate = errors.New("潮流数值退化")
)
